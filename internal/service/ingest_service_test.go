package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/internal/config"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/extract"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

// recordingStore captures every Add so tests can inspect the stored chunks.
type recordingStore struct {
	mu    sync.Mutex
	adds  int
	texts []string
	metas []vectorstore.Metadata
}

func (r *recordingStore) Add(ctx context.Context, vectors [][]float32, texts []string, metas []vectorstore.Metadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(vectors) != len(texts) || len(texts) != len(metas) {
		return errors.New("misaligned batch")
	}
	r.adds++
	r.texts = append(r.texts, texts...)
	r.metas = append(r.metas, metas...)
	return nil
}

func (r *recordingStore) Search(ctx context.Context, query []float32, k int) ([]vectorstore.SearchHit, error) {
	return nil, nil
}

func (r *recordingStore) Count(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.texts)), nil
}

type countingPersister struct {
	saves int
	err   error
}

func (p *countingPersister) Save() error {
	p.saves++
	return p.err
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func ingestTestConfig() *config.Config {
	return &config.Config{
		Vector: config.VectorConfig{Dataset: "test"},
		Rag: config.RagConfig{
			ChunkSize:     800,
			ChunkOverlap:  100,
			IngestWorkers: 2,
			MaxFileSizeMB: 1,
		},
	}
}

func newIngestFixture() (IIngestService, *recordingStore, *countingPersister) {
	store := &recordingStore{}
	persister := &countingPersister{}
	svc := NewIngestService(
		store,
		&constantEmbedder{vector: []float32{1, 0, 0}},
		persister,
		ingestTestConfig(),
		nil,
		nil,
		nopLogger{},
	)
	return svc, store, persister
}

func writeIngestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

func TestIngestDirectory(t *testing.T) {
	svc, store, persister := newIngestFixture()

	dir := t.TempDir()
	good := writeIngestFile(t, dir, "izin.txt", "Prosedur perizinan berusaha memerlukan NIB dari sistem OSS.")
	writeIngestFile(t, dir, "catatan.md", "ekstensi tidak didukung")
	writeIngestFile(t, dir, "besar.txt", strings.Repeat("x", 1100*1024))
	writeIngestFile(t, dir, "kosong.txt", "   \n\t  ")

	report, err := svc.IngestDirectory(context.Background(), dir)
	if err != nil {
		t.Fatalf("IngestDirectory: %v", err)
	}

	if report.FilesProcessed != 1 {
		t.Errorf("files_processed = %d, want 1", report.FilesProcessed)
	}
	if report.FilesSkipped != 2 {
		t.Errorf("files_skipped = %d, want 2 (unsupported + oversized)", report.FilesSkipped)
	}
	if len(report.FailedFiles) != 1 {
		t.Fatalf("failed_files = %d, want 1", len(report.FailedFiles))
	}
	if filepath.Base(report.FailedFiles[0].File) != "kosong.txt" {
		t.Errorf("failed file = %q, want kosong.txt", report.FailedFiles[0].File)
	}
	if report.FailedFiles[0].Error == "" {
		t.Error("failure must carry the error text")
	}
	if report.ChunksAdded != 1 {
		t.Errorf("chunks_added = %d, want 1", report.ChunksAdded)
	}
	if report.TotalChunks != 1 {
		t.Errorf("total_chunks = %d, want 1", report.TotalChunks)
	}
	if report.Dataset != "test" {
		t.Errorf("dataset = %q, want test", report.Dataset)
	}
	if report.Duration == "" {
		t.Error("duration must be populated")
	}
	if persister.saves != 1 {
		t.Errorf("persister saved %d times, want 1", persister.saves)
	}

	if len(store.metas) != 1 {
		t.Fatalf("store holds %d chunks, want 1", len(store.metas))
	}
	meta := store.metas[0]
	if meta.Source != good {
		t.Errorf("source = %q, want %q", meta.Source, good)
	}
	if meta.Filename != "izin.txt" {
		t.Errorf("filename = %q", meta.Filename)
	}
	if meta.FileType != ".txt" {
		t.Errorf("file_type = %q", meta.FileType)
	}
	if meta.ChunkIndex != 0 {
		t.Errorf("chunk_index = %d", meta.ChunkIndex)
	}
	if !strings.Contains(store.texts[0], "Source: izin.txt") {
		t.Errorf("chunk must carry the provenance header:\n%s", store.texts[0])
	}
}

func TestIngestDirectoryRejectsBadPaths(t *testing.T) {
	svc, _, _ := newIngestFixture()

	t.Run("missing directory", func(t *testing.T) {
		_, err := svc.IngestDirectory(context.Background(), filepath.Join(t.TempDir(), "hilang"))
		if err == nil {
			t.Fatal("expected error for a missing directory")
		}
	})

	t.Run("path is a file", func(t *testing.T) {
		path := writeIngestFile(t, t.TempDir(), "bukan_direktori.txt", "isi")
		_, err := svc.IngestDirectory(context.Background(), path)
		if err == nil {
			t.Fatal("expected error for a file path")
		}
	})
}

func TestIngestFile(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc, store, persister := newIngestFixture()
		path := writeIngestFile(t, t.TempDir(), "panduan.txt", "Panduan pengajuan izin usaha di Jawa Tengah.")

		chunks, err := svc.IngestFile(context.Background(), path)
		if err != nil {
			t.Fatalf("IngestFile: %v", err)
		}
		if chunks != 1 {
			t.Errorf("chunks = %d, want 1", chunks)
		}
		if len(store.texts) != 1 {
			t.Errorf("store holds %d chunks, want 1", len(store.texts))
		}
		if persister.saves != 1 {
			t.Errorf("persister saved %d times, want 1", persister.saves)
		}
	})

	t.Run("unsupported extension", func(t *testing.T) {
		svc, store, _ := newIngestFixture()
		path := writeIngestFile(t, t.TempDir(), "laporan.docx", "tidak didukung")

		_, err := svc.IngestFile(context.Background(), path)
		if !errors.Is(err, extract.ErrUnsupportedType) {
			t.Fatalf("expected ErrUnsupportedType, got %v", err)
		}
		if len(store.texts) != 0 {
			t.Error("nothing may reach the store")
		}
	})

	t.Run("oversized file", func(t *testing.T) {
		svc, store, _ := newIngestFixture()
		path := writeIngestFile(t, t.TempDir(), "besar.txt", strings.Repeat("x", 1100*1024))

		_, err := svc.IngestFile(context.Background(), path)
		if err == nil {
			t.Fatal("expected error for an oversized file")
		}
		if !strings.Contains(err.Error(), "limit") {
			t.Errorf("error should name the size limit, got %v", err)
		}
		if len(store.texts) != 0 {
			t.Error("nothing may reach the store")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		svc, _, _ := newIngestFixture()
		if _, err := svc.IngestFile(context.Background(), filepath.Join(t.TempDir(), "hilang.txt")); err == nil {
			t.Fatal("expected error for a missing file")
		}
	})
}

func TestIngestFileBatchesLargeDocuments(t *testing.T) {
	svc, store, _ := newIngestFixture()

	// Long enough to split into more chunks than one embedding batch holds.
	text := strings.Repeat("Prosedur perizinan berusaha di Jawa Tengah diawali dengan pendaftaran NIB. ", 400)
	path := writeIngestFile(t, t.TempDir(), "panjang.txt", text)

	chunks, err := svc.IngestFile(context.Background(), path)
	if err != nil {
		t.Fatalf("IngestFile: %v", err)
	}

	if chunks <= embedBatchSize {
		t.Fatalf("fixture too small: %d chunks, need more than %d", chunks, embedBatchSize)
	}
	if store.adds < 2 {
		t.Errorf("adds = %d, want at least 2 batches", store.adds)
	}
	if len(store.texts) != chunks {
		t.Errorf("store holds %d chunks, reported %d", len(store.texts), chunks)
	}
	for i, meta := range store.metas {
		if meta.ChunkIndex != i {
			t.Fatalf("chunk_index at %d = %d, indices must stay continuous across batches", i, meta.ChunkIndex)
		}
		if meta.Filename != "panjang.txt" {
			t.Fatalf("filename at %d = %q", i, meta.Filename)
		}
	}
}

func TestIngestFileEmbedderFailure(t *testing.T) {
	store := &recordingStore{}
	svc := NewIngestService(
		store,
		&constantEmbedder{err: errors.New("provider down")},
		&countingPersister{},
		ingestTestConfig(),
		nil,
		nil,
		nopLogger{},
	)

	path := writeIngestFile(t, t.TempDir(), "izin.txt", "Prosedur perizinan berusaha.")

	_, err := svc.IngestFile(context.Background(), path)
	if err == nil {
		t.Fatal("embedding failure must fail the file")
	}
	if len(store.texts) != 0 {
		t.Error("failed batches may not reach the store")
	}
}
