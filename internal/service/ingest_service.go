// FILE: internal/service/ingest_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/dto"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/logger"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/pkg/mailer"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/embedding"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/events"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/extract"
	pktNats "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/nats"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/utils"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

// embedBatchSize bounds one embedding request. Ollama handles large batches
// fine but remote providers reject oversized payloads.
const embedBatchSize = 32

type IIngestService interface {
	IngestDirectory(ctx context.Context, dir string) (*dto.IngestReportResponse, error)
	// IngestFile embeds a single document and returns the number of chunks
	// added. The upload consumer uses it.
	IngestFile(ctx context.Context, path string) (int, error)
}

// Persister is implemented by the flat-file backend, which buffers writes in
// memory. The pgvector backend persists on every insert and passes nil.
type Persister interface {
	Save() error
}

type ingestService struct {
	store     vectorstore.Store
	provider  embedding.EmbeddingProvider
	persister Persister
	cfg       *config.Config
	email     mailer.IEmailService // nil when SMTP is not configured
	natsPub   *pktNats.Publisher   // nil when the event bus is down
	logger    logger.ILogger
}

func NewIngestService(
	store vectorstore.Store,
	provider embedding.EmbeddingProvider,
	persister Persister,
	cfg *config.Config,
	email mailer.IEmailService,
	natsPub *pktNats.Publisher,
	ingestLogger logger.ILogger,
) IIngestService {
	return &ingestService{
		store:     store,
		provider:  provider,
		persister: persister,
		cfg:       cfg,
		email:     email,
		natsPub:   natsPub,
		logger:    ingestLogger,
	}
}

// ingestOutcome is the per-file result collected from the workers.
type ingestOutcome struct {
	file   string
	chunks int
	err    error
}

func (s *ingestService) IngestDirectory(ctx context.Context, dir string) (*dto.IngestReportResponse, error) {
	start := time.Now()

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("open ingest directory: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.New("ingest path is not a directory")
	}

	files, skipped, err := s.collectFiles(dir)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ingest", "Starting directory ingest", map[string]interface{}{
		"directory": dir,
		"files":     len(files),
		"skipped":   skipped,
		"workers":   s.cfg.Rag.IngestWorkers,
	})

	outcomes := s.runWorkers(ctx, files)

	report := &dto.IngestReportResponse{
		Dataset:      s.cfg.Vector.Dataset,
		Directory:    dir,
		FilesSkipped: skipped,
		FailedFiles:  []dto.IngestFailureDTO{},
	}
	for _, out := range outcomes {
		if out.err != nil {
			report.FailedFiles = append(report.FailedFiles, dto.IngestFailureDTO{
				File:  out.file,
				Error: out.err.Error(),
			})
			continue
		}
		report.FilesProcessed++
		report.ChunksAdded += out.chunks
	}

	if err := s.persist(); err != nil {
		return nil, fmt.Errorf("persist vector store: %w", err)
	}

	if total, err := s.store.Count(ctx); err == nil {
		report.TotalChunks = total
	}

	duration := time.Since(start)
	report.Duration = duration.Round(time.Millisecond).String()

	s.logger.Info("ingest", "Directory ingest finished", map[string]interface{}{
		"directory":       dir,
		"files_processed": report.FilesProcessed,
		"files_failed":    len(report.FailedFiles),
		"chunks_added":    report.ChunksAdded,
		"duration":        report.Duration,
	})

	s.publishCompleted(ctx, report, duration)
	s.emailReport(dir, report, duration)

	return report, nil
}

func (s *ingestService) IngestFile(ctx context.Context, path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat upload: %w", err)
	}
	if s.tooLarge(info.Size()) {
		return 0, fmt.Errorf("file exceeds %d MB limit", s.cfg.Rag.MaxFileSizeMB)
	}
	if !extract.SupportedExtension(filepath.Ext(path)) {
		return 0, extract.ErrUnsupportedType
	}

	chunks, err := s.ingestOne(ctx, path)
	if err != nil {
		return 0, err
	}
	if err := s.persist(); err != nil {
		return 0, fmt.Errorf("persist vector store: %w", err)
	}

	s.logger.Info("ingest", "File ingested", map[string]interface{}{
		"file":   path,
		"chunks": chunks,
	})
	return chunks, nil
}

// collectFiles walks the directory and returns the ingestable files. Unsupported
// extensions and oversized files are counted as skipped, not failures.
func (s *ingestService) collectFiles(dir string) ([]string, int, error) {
	var files []string
	skipped := 0

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !extract.SupportedExtension(filepath.Ext(path)) {
			skipped++
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		if s.tooLarge(info.Size()) {
			skipped++
			s.logger.Warn("ingest", "Skipping oversized file", map[string]interface{}{
				"file":    path,
				"size_mb": info.Size() / (1 << 20),
			})
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("walk ingest directory: %w", err)
	}
	return files, skipped, nil
}

// runWorkers fans the files out over a bounded worker pool. A failed file is
// recorded and the rest continue.
func (s *ingestService) runWorkers(ctx context.Context, files []string) []ingestOutcome {
	workers := s.cfg.Rag.IngestWorkers
	if workers < 1 {
		workers = 1
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		outcomes = make([]ingestOutcome, 0, len(files))
	)
	sem := make(chan struct{}, workers)

	for _, file := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(file string) {
			defer wg.Done()
			defer func() { <-sem }()

			chunks, err := s.ingestOne(ctx, file)
			if err != nil {
				s.logger.Error("ingest", "File failed", map[string]interface{}{
					"file":  file,
					"error": err.Error(),
				})
			}

			mu.Lock()
			outcomes = append(outcomes, ingestOutcome{file: file, chunks: chunks, err: err})
			mu.Unlock()
		}(file)
	}
	wg.Wait()

	return outcomes
}

// ingestOne runs the extract → chunk → embed → store chain for a single file.
func (s *ingestService) ingestOne(ctx context.Context, path string) (int, error) {
	text, err := extract.File(path)
	if err != nil {
		return 0, err
	}
	text = utils.CleanText(text)
	if strings.TrimSpace(text) == "" {
		return 0, errors.New("no text extracted")
	}

	text = extract.WithProvenance(path, text)
	chunks := utils.SplitText(text, s.cfg.Rag.ChunkSize, s.cfg.Rag.ChunkOverlap)
	if len(chunks) == 0 {
		return 0, errors.New("no chunks produced")
	}

	ext := strings.ToLower(filepath.Ext(path))
	for offset := 0; offset < len(chunks); offset += embedBatchSize {
		end := offset + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[offset:end]

		vectors, err := s.provider.Embed(ctx, batch)
		if err != nil {
			return 0, fmt.Errorf("embed batch at chunk %d: %w", offset, err)
		}

		metas := make([]vectorstore.Metadata, len(batch))
		for i := range batch {
			metas[i] = vectorstore.Metadata{
				Source:     path,
				Filename:   filepath.Base(path),
				ChunkIndex: offset + i,
				FileType:   ext,
			}
		}
		if err := s.store.Add(ctx, vectors, batch, metas); err != nil {
			return 0, fmt.Errorf("store batch at chunk %d: %w", offset, err)
		}
	}

	return len(chunks), nil
}

func (s *ingestService) persist() error {
	if s.persister == nil {
		return nil
	}
	return s.persister.Save()
}

func (s *ingestService) tooLarge(size int64) bool {
	return size > s.cfg.Rag.MaxFileSizeMB*(1<<20)
}

func (s *ingestService) publishCompleted(ctx context.Context, report *dto.IngestReportResponse, duration time.Duration) {
	if s.natsPub == nil {
		return
	}
	failed := make([]string, len(report.FailedFiles))
	for i, f := range report.FailedFiles {
		failed[i] = f.File
	}
	evt := events.NewIngestCompleted(report.Dataset, report.FilesProcessed, report.ChunksAdded, failed, duration)
	if err := s.natsPub.Publish(ctx, evt); err != nil {
		log.Printf("[WARN] Failed to publish ingest event: %v", err)
	}
}

// emailReport sends the run summary without blocking the caller. Skipped when
// SMTP or the recipient is not configured.
func (s *ingestService) emailReport(dir string, report *dto.IngestReportResponse, duration time.Duration) {
	if s.email == nil || s.cfg.SMTP.ReportTo == "" {
		return
	}

	failed := make([]string, len(report.FailedFiles))
	for i, f := range report.FailedFiles {
		failed[i] = fmt.Sprintf("%s (%s)", f.File, f.Error)
	}
	mailReport := mailer.IngestReport{
		Dataset:        report.Dataset,
		Directory:      dir,
		FilesProcessed: report.FilesProcessed,
		FilesSkipped:   report.FilesSkipped,
		ChunksAdded:    report.ChunksAdded,
		FailedFiles:    failed,
		Duration:       duration,
	}

	go func() {
		if err := s.email.SendIngestReport(s.cfg.SMTP.ReportTo, mailReport); err != nil {
			log.Printf("[WARN] Failed to send ingest report email: %v", err)
		}
	}()
}
