package context

import (
	"strings"
	"testing"

	"github.com/Erlanda-Prasetio/ptsp-chatbot/pkg/vectorstore"
)

func hit(text, source string, similarity float64) vectorstore.SearchHit {
	return vectorstore.SearchHit{
		Text:       text,
		Meta:       vectorstore.Metadata{Source: source},
		Similarity: similarity,
	}
}

func TestBuildEmptyHits(t *testing.T) {
	b := NewBuilder(1600)
	if got := b.Build(nil); got != NoRelevantInformation {
		t.Errorf("expected sentinel for empty hits, got %q", got)
	}
}

func TestBuildFormatsHeadersAndSeparators(t *testing.T) {
	b := NewBuilder(1600)

	ctx := b.Build([]vectorstore.SearchHit{
		hit("Syarat NIB meliputi KTP dan NPWP.", "nib.txt", 0.75),
		hit("Jam pelayanan Senin sampai Jumat.", "layanan.csv", 0.5),
	})

	if !strings.Contains(ctx, "### DOKUMEN 1: nib.txt (Relevansi: 75%)") {
		t.Errorf("missing first document header:\n%s", ctx)
	}
	if !strings.Contains(ctx, "### DOKUMEN 2: layanan.csv (Relevansi: 50%)") {
		t.Errorf("missing second document header:\n%s", ctx)
	}
	if !strings.Contains(ctx, "SUMBER DATA: nib.txt, layanan.csv") {
		t.Errorf("missing source preamble:\n%s", ctx)
	}
	if !strings.Contains(ctx, "---") {
		t.Errorf("missing separators:\n%s", ctx)
	}
}

func TestBuildSingleHitSkipsPreamble(t *testing.T) {
	b := NewBuilder(1600)

	ctx := b.Build([]vectorstore.SearchHit{hit("Isi dokumen.", "satu.txt", 0.75)})
	if strings.Contains(ctx, "SUMBER DATA") {
		t.Errorf("preamble should not appear for a single hit:\n%s", ctx)
	}
}

func TestBuildUnknownSource(t *testing.T) {
	b := NewBuilder(1600)

	ctx := b.Build([]vectorstore.SearchHit{hit("Isi tanpa sumber.", "", 0.75)})
	if !strings.Contains(ctx, "Sumber tidak diketahui") {
		t.Errorf("missing unknown-source placeholder:\n%s", ctx)
	}
}

func TestBuildRespectsBudget(t *testing.T) {
	// Budget of 100 tokens * 1.5 = 150 tokens = 600 chars.
	b := NewBuilder(100)

	long := strings.Repeat("a", 500)
	ctx := b.Build([]vectorstore.SearchHit{
		hit(long, "pertama.txt", 0.75),
		hit(long, "kedua.txt", 0.5),
	})

	if !strings.Contains(ctx, "DOKUMEN 1") {
		t.Errorf("first document should fit the budget:\n%s", truncateForLog(ctx))
	}
	if strings.Contains(ctx, "DOKUMEN 2") {
		t.Errorf("second document should exceed the budget:\n%s", truncateForLog(ctx))
	}
}

func TestBuildThresholdFallback(t *testing.T) {
	b := NewBuilder(1600)

	ctx := b.Build([]vectorstore.SearchHit{
		hit("rendah satu", "a.txt", 0.10),
		hit("rendah dua", "b.txt", 0.20),
	})

	// Nothing clears 0.30, so the best hits are used anyway.
	if ctx == NoRelevantInformation {
		t.Fatal("fallback should keep low-similarity hits")
	}
	if !strings.Contains(ctx, "rendah dua") {
		t.Errorf("best low-similarity hit missing:\n%s", ctx)
	}
	if !strings.Contains(ctx, "DOKUMEN 1: b.txt") {
		t.Errorf("fallback should order by similarity:\n%s", ctx)
	}
}

func TestBuildThresholdIsMonotonic(t *testing.T) {
	hits := []vectorstore.SearchHit{
		hit("sangat relevan", "a.txt", 0.9),
		hit("cukup relevan", "b.txt", 0.7),
		hit("agak relevan", "c.txt", 0.5),
		hit("tidak relevan", "d.txt", 0.2),
	}

	// As long as at least one hit clears the bar, raising the threshold can
	// only shrink the context.
	prev := len(hits) + 1
	for _, threshold := range []float64{0.1, 0.4, 0.6, 0.8} {
		b := NewBuilder(1600)
		b.Threshold = threshold

		included := strings.Count(b.Build(hits), "### DOKUMEN")
		if included == 0 {
			t.Fatalf("threshold %.1f produced an empty context", threshold)
		}
		if included > prev {
			t.Errorf("threshold %.1f included %d documents, lower threshold included %d", threshold, included, prev)
		}
		prev = included
	}
}

func TestBuildCollapsesWhitespace(t *testing.T) {
	b := NewBuilder(1600)

	ctx := b.Build([]vectorstore.SearchHit{
		hit("baris  satu\n\n\n\nbaris    dua", "c.txt", 0.75),
	})

	if strings.Contains(ctx, "baris  satu") {
		t.Errorf("whitespace not collapsed:\n%s", ctx)
	}
	if !strings.Contains(ctx, "baris satu baris dua") {
		t.Errorf("expected collapsed content, got:\n%s", ctx)
	}
}

func truncateForLog(s string) string {
	if len(s) > 300 {
		return s[:300] + "..."
	}
	return s
}
