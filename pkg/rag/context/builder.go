package context

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

// NoRelevantInformation is what Build returns when it has nothing to work
// with. Callers treat it as the empty-context sentinel.
const NoRelevantInformation = "Tidak ada informasi relevan yang ditemukan."

// Builder assembles the document context handed to the LLM. Hits are
// re-checked against the similarity threshold, formatted with source headers,
// and cut off once the token budget is spent.
type Builder struct {
	MaxContextTokens int
	Threshold        float64
	FallbackTopN     int
}

// NewBuilder returns a Builder with the production defaults.
func NewBuilder(maxContextTokens int) *Builder {
	if maxContextTokens <= 0 {
		maxContextTokens = 1600
	}
	return &Builder{
		MaxContextTokens: maxContextTokens,
		Threshold:        0.30,
		FallbackTopN:     3,
	}
}

var (
	multiBlank  = regexp.MustCompile(`\n\s*\n\s*\n`)
	innerSpaces = regexp.MustCompile(`\s+`)
)

// Build renders the hits into the context block. The budget allows half again
// the configured token count, estimated at four characters per token, so a
// document on the boundary still makes it in whole.
func (b *Builder) Build(hits []vectorstore.SearchHit) string {
	hits = b.selectHits(hits)
	if len(hits) == 0 {
		return NoRelevantInformation
	}

	var parts []string

	if preamble := b.sourcePreamble(hits); preamble != "" {
		parts = append(parts, preamble, "")
	}

	budget := float64(b.MaxContextTokens) * 1.5
	var spent float64

	for i, hit := range hits {
		est := float64(len(hit.Text)) / 4 // rough token estimate
		if spent+est > budget {
			break
		}
		spent += est

		header := fmt.Sprintf("### DOKUMEN %d: %s (Relevansi: %d%%)", i+1, sourceName(hit), int(hit.Similarity*100))
		parts = append(parts, header, "", cleanContent(hit.Text), "", "---", "")
	}

	if len(parts) == 0 {
		return NoRelevantInformation
	}
	return strings.Join(parts, "\n")
}

// selectHits applies the threshold once more. The search stage already
// filters, but the builder is also used directly by debug tooling, so it
// keeps the same keep-or-fallback behavior.
func (b *Builder) selectHits(hits []vectorstore.SearchHit) []vectorstore.SearchHit {
	if len(hits) == 0 {
		return nil
	}

	kept := make([]vectorstore.SearchHit, 0, len(hits))
	for _, hit := range hits {
		if hit.Similarity >= b.Threshold {
			kept = append(kept, hit)
		}
	}
	if len(kept) > 0 {
		return kept
	}

	fallback := make([]vectorstore.SearchHit, len(hits))
	copy(fallback, hits)
	sort.SliceStable(fallback, func(a, b int) bool {
		return fallback[a].Similarity > fallback[b].Similarity
	})
	if len(fallback) > b.FallbackTopN {
		fallback = fallback[:b.FallbackTopN]
	}
	return fallback
}

// sourcePreamble lists the distinct sources when the context mixes documents,
// capped at five names.
func (b *Builder) sourcePreamble(hits []vectorstore.SearchHit) string {
	if len(hits) < 2 {
		return ""
	}

	seen := make(map[string]bool)
	var sources []string
	for _, hit := range hits {
		name := hit.Meta.Source
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		sources = append(sources, name)
		if len(sources) == 5 {
			break
		}
	}
	if len(sources) == 0 {
		return ""
	}
	return "SUMBER DATA: " + strings.Join(sources, ", ")
}

func sourceName(hit vectorstore.SearchHit) string {
	if hit.Meta.Source == "" {
		return "Sumber tidak diketahui"
	}
	return hit.Meta.Source
}

func cleanContent(text string) string {
	clean := strings.TrimSpace(text)
	clean = multiBlank.ReplaceAllString(clean, "\n\n")
	clean = innerSpaces.ReplaceAllString(clean, " ")
	return clean
}
