package response

import (
	"strings"
	"testing"
)

func TestDetectSmallTalk(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantMatch bool
		wantPart  string
	}{
		{"greeting", "Halo", true, "Selamat datang"},
		{"greeting with words", "selamat pagi", true, "Selamat datang"},
		{"help request", "info", true, "perizinan berusaha"},
		{"thanks", "terima kasih banyak", true, "Sama-sama"},
		{"real question with trigger word", "apa saja layanan DPMPTSP untuk investor", false, ""},
		{"real question", "bagaimana cara mengurus NIB di Jawa Tengah", false, ""},
		{"empty", "", false, ""},
		{"whitespace only", "   ", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, ok := DetectSmallTalk(tt.query)
			if ok != tt.wantMatch {
				t.Fatalf("DetectSmallTalk(%q) match = %v, want %v", tt.query, ok, tt.wantMatch)
			}
			if ok && !strings.Contains(reply, tt.wantPart) {
				t.Errorf("reply %q missing %q", reply, tt.wantPart)
			}
		})
	}
}

func TestOutOfScopeNamesQuestionAndTopics(t *testing.T) {
	msg := OutOfScope("siapa presiden amerika")

	if !strings.Contains(msg, `"siapa presiden amerika"`) {
		t.Errorf("message should quote the question:\n%s", msg)
	}
	if !strings.Contains(msg, "Perizinan dan investasi di Jawa Tengah") {
		t.Errorf("message should list covered topics:\n%s", msg)
	}
}

func TestCleanAnswerStripsArtifacts(t *testing.T) {
	raw := "Berdasarkan data [Doc1] dan [Doc12], jawabannya adalah X.\nDocument 2: lanjutan\nSource: data/file.txt\nBaris penutup."

	got := CleanAnswer(raw)

	for _, banned := range []string{"[Doc1]", "[Doc12]", "Document 2:", "Source:"} {
		if strings.Contains(got, banned) {
			t.Errorf("artifact %q survived cleanup:\n%s", banned, got)
		}
	}
	if !strings.Contains(got, "Baris penutup.") {
		t.Errorf("real content lost:\n%s", got)
	}
}

func TestCleanAnswerCollapsesBlankRuns(t *testing.T) {
	got := CleanAnswer("Paragraf satu.\n\n\n\nParagraf dua.")
	if !strings.Contains(got, "Paragraf satu.\n\nParagraf dua.") {
		t.Errorf("blank runs not collapsed: %q", got)
	}
}

func TestEnsureComplete(t *testing.T) {
	short := "Jawaban singkat tanpa titik"
	if got := EnsureComplete(short); got != short {
		t.Errorf("short answer should pass through, got %q", got)
	}

	longComplete := strings.Repeat("a", 1500) + "."
	if got := EnsureComplete(longComplete); strings.Contains(got, TruncationNotice) {
		t.Error("answer ending in punctuation should not get the notice")
	}

	longCut := strings.Repeat("a", 1500)
	got := EnsureComplete(longCut)
	if !strings.HasSuffix(got, TruncationNotice) {
		t.Error("long answer without terminal punctuation should get the notice")
	}
}
