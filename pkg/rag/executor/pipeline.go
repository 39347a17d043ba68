package executor

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/llm"
	ragcontext "github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/context"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/gate"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/response"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/rag/search"
	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

// Reason codes attached to diagnostics on the degraded paths.
const (
	ReasonOutOfScope       = "out_of_scope"
	ReasonNoResults        = "no_results"
	ReasonGenerationFailed = "generation_failed"
)

// Confidence levels reported in diagnostics.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// PipelineExecutor orchestrates the four-phase answer pipeline
// Phase 1: Domain Gate → Phase 2: Retrieval → Phase 3: Context Assembly → Phase 4: Generation
type PipelineExecutor struct {
	gate         *gate.Gate
	orchestrator *search.Orchestrator
	searchConfig search.Config
	builder      *ragcontext.Builder
	generator    *response.Generator
	logger       *log.Logger
}

// NewPipelineExecutor creates a new four-phase pipeline executor
func NewPipelineExecutor(
	llmProvider llm.LLMProvider,
	orchestrator *search.Orchestrator,
	searchConfig search.Config,
	maxContextTokens int,
	logger *log.Logger,
) *PipelineExecutor {
	return &PipelineExecutor{
		gate:         gate.NewGate(),
		orchestrator: orchestrator,
		searchConfig: searchConfig,
		builder:      ragcontext.NewBuilder(maxContextTokens),
		generator:    response.NewGenerator(llmProvider, logger),
		logger:       logger,
	}
}

// Source describes one retrieved document backing an answer.
type Source struct {
	Source      string   `json:"source"`
	Filename    string   `json:"filename"`
	Similarity  float64  `json:"similarity"`
	RerankScore *float64 `json:"rerank_score,omitempty"`
	Preview     string   `json:"preview"`
}

// Features records which pipeline stages fired and how the run went. It is
// populated on every path, degraded ones included.
type Features struct {
	QueryExpansion bool   `json:"query_expansion"`
	Reranking      bool   `json:"reranking"`
	DomainRelevant bool   `json:"domain_relevant"`
	UsedFallback   bool   `json:"used_fallback"`
	ResponseTime   string `json:"response_time"`
	Confidence     string `json:"confidence"`
	Reason         string `json:"reason,omitempty"`
}

// Result is the answer envelope. Every question gets one, whatever happened
// inside the pipeline; TotalSources always equals len(Sources).
type Result struct {
	Question     string   `json:"question"`
	Answer       string   `json:"answer"`
	Sources      []Source `json:"sources"`
	TotalSources int      `json:"total_sources"`
	Features     Features `json:"enhanced_features"`
}

// Execute runs the complete four-phase pipeline. Failures inside the pipeline
// are translated into canned terminal results rather than returned as errors,
// so callers always get a well-formed Result.
func (p *PipelineExecutor) Execute(ctx context.Context, question string, history []llm.Message) (*Result, error) {
	start := time.Now()

	p.logger.Printf("[PIPELINE] Processing question: %s", truncate(question, 50))

	// ═══════════════════════════════════════════════════════════════
	// PHASE 1: DOMAIN GATE
	// ═══════════════════════════════════════════════════════════════
	if !p.gate.IsDomainRelevant(question) {
		p.logger.Printf("[PHASE 1] Question rejected as out of scope")
		return p.outOfScopeResult(question, start), nil
	}
	p.logger.Printf("[PHASE 1] Question accepted as domain relevant")

	// ═══════════════════════════════════════════════════════════════
	// PHASE 2: RETRIEVAL (expansion, multi-variant search, filter, rerank)
	// ═══════════════════════════════════════════════════════════════
	searchResult, err := p.orchestrator.Execute(ctx, question, p.searchConfig)
	if err != nil {
		p.logger.Printf("[ERROR] Retrieval failed: %v", err)
		return p.noResultsResult(question, start), nil
	}
	if len(searchResult.Hits) == 0 {
		p.logger.Printf("[PHASE 2] No hits survived filtering")
		return p.noResultsResult(question, start), nil
	}
	p.logger.Printf("[PHASE 2] Retrieved %d hits from %d variants (fallback: %v, reranked: %v)",
		len(searchResult.Hits), len(searchResult.Variants), searchResult.UsedFallback, searchResult.Reranked)

	// ═══════════════════════════════════════════════════════════════
	// PHASE 3: CONTEXT ASSEMBLY
	// ═══════════════════════════════════════════════════════════════
	docContext := p.builder.Build(searchResult.Hits)
	if docContext == ragcontext.NoRelevantInformation {
		p.logger.Printf("[PHASE 3] Context assembly produced nothing usable")
		return p.noResultsResult(question, start), nil
	}
	p.logger.Printf("[PHASE 3] Context assembled (%d characters)", len(docContext))

	// ═══════════════════════════════════════════════════════════════
	// PHASE 4: GENERATION
	// ═══════════════════════════════════════════════════════════════
	sources := buildSources(searchResult.Hits)
	features := Features{
		QueryExpansion: len(searchResult.Variants) > 1,
		Reranking:      searchResult.Reranked,
		DomainRelevant: true,
		UsedFallback:   searchResult.UsedFallback,
		Confidence:     confidenceFor(searchResult),
	}

	answer, err := p.generator.Generate(ctx, question, docContext, history)
	if err != nil {
		// Sources were still found; return them with the apology.
		p.logger.Printf("[ERROR] Generation failed: %v", err)
		features.Reason = ReasonGenerationFailed
		features.ResponseTime = elapsed(start)
		return &Result{
			Question:     question,
			Answer:       response.GenerationError,
			Sources:      sources,
			TotalSources: len(sources),
			Features:     features,
		}, nil
	}

	features.ResponseTime = elapsed(start)
	p.logger.Printf("[PHASE 4] Answer ready (%d sources, confidence: %s)", len(sources), features.Confidence)

	return &Result{
		Question:     question,
		Answer:       response.CleanAnswer(answer),
		Sources:      sources,
		TotalSources: len(sources),
		Features:     features,
	}, nil
}

func (p *PipelineExecutor) outOfScopeResult(question string, start time.Time) *Result {
	return &Result{
		Question: question,
		Answer:   response.OutOfScope(question),
		Sources:  []Source{},
		Features: Features{
			DomainRelevant: false,
			ResponseTime:   elapsed(start),
			Confidence:     ConfidenceHigh,
			Reason:         ReasonOutOfScope,
		},
	}
}

func (p *PipelineExecutor) noResultsResult(question string, start time.Time) *Result {
	return &Result{
		Question: question,
		Answer:   response.NoResults,
		Sources:  []Source{},
		Features: Features{
			DomainRelevant: true,
			ResponseTime:   elapsed(start),
			Confidence:     ConfidenceLow,
			Reason:         ReasonNoResults,
		},
	}
}

// confidenceFor grades the retrieval outcome: fallback hits are always low,
// a strong top score is high, anything else medium.
func confidenceFor(result *search.Result) string {
	if result.UsedFallback {
		return ConfidenceLow
	}
	if len(result.Hits) > 0 && result.Hits[0].Score() > 0.5 {
		return ConfidenceHigh
	}
	return ConfidenceMedium
}

func buildSources(hits []vectorstore.SearchHit) []Source {
	sources := make([]Source, 0, len(hits))
	for _, hit := range hits {
		sources = append(sources, Source{
			Source:      hit.Meta.Source,
			Filename:    filenameOf(hit.Meta.Source),
			Similarity:  hit.Similarity,
			RerankScore: hit.RerankScore,
			Preview:     preview(hit.Text),
		})
	}
	return sources
}

// filenameOf extracts the bare file name. Scraped sources carry Windows-style
// paths, so both separators are handled.
func filenameOf(path string) string {
	if i := strings.LastIndex(path, "\\"); i >= 0 {
		path = path[i+1:]
	}
	if i := strings.LastIndex(path, "/"); i >= 0 {
		path = path[i+1:]
	}
	return path
}

const previewRunes = 200

func preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}

func elapsed(start time.Time) string {
	return fmt.Sprintf("%.2fs", time.Since(start).Seconds())
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
