package response

import (
	"fmt"
	"regexp"
	"strings"
)

// Canned replies for the terminal pipeline states. These are static Indonesian
// strings rather than LLM output so the failure paths never depend on the
// provider that just failed.
const (
	// NoResults is returned when retrieval found nothing usable.
	NoResults = "Maaf, saya tidak menemukan informasi yang relevan untuk pertanyaan Anda dalam database saat ini. Silakan coba dengan kata kunci yang berbeda atau hubungi DPMPTSP Jawa Tengah langsung."

	// GenerationError is returned when the LLM call itself fails.
	GenerationError = "Maaf, terjadi kesalahan saat menyusun jawaban. Silakan coba beberapa saat lagi atau hubungi DPMPTSP Jawa Tengah langsung."

	// TruncationNotice is appended when a long answer looks cut off
	// mid-sentence.
	TruncationNotice = "[Respons mungkin terpotong karena batasan panjang. Untuk informasi lebih detail, silakan hubungi DPMPTSP Jawa Tengah langsung.]"

	// ContactFallback points the user at the offline service channels. Used
	// when the system cannot answer at all.
	ContactFallback = `Terima kasih atas pertanyaan Anda. Untuk informasi lebih detail, silakan:

1. Hubungi call center DPMPTSP di (024) 3569988 atau hotline 14000
2. Kunjungi website resmi DPMPTSP Jawa Tengah
3. Datang langsung ke kantor DPMPTSP
   Alamat: Jl. Menteri Supeno No. 2, Semarang
   Jam kerja: Senin-Jumat, 07.30-16.00 WIB

Petugas kami siap membantu Anda dengan informasi yang akurat dan terkini.`
)

// OutOfScope formats the rejection message for questions the domain gate
// turned away, listing the topics the system does cover.
func OutOfScope(question string) string {
	return fmt.Sprintf(`Maaf, pertanyaan Anda tentang "%s" berada di luar cakupan sistem informasi DPMPTSP Jawa Tengah.

Saya dapat membantu Anda dengan informasi tentang:
• Layanan dan prosedur DPMPTSP
• Perizinan dan investasi di Jawa Tengah
• Persyaratan dan dokumen yang diperlukan
• Kebijakan pemerintah Provinsi Jawa Tengah
• Prosedur pelayanan terpadu satu pintu

Silakan ajukan pertanyaan yang berkaitan dengan topik-topik tersebut.`, question)
}

// smallTalkRule maps trigger words to a canned reply. Rules are checked in
// order; the first match wins.
type smallTalkRule struct {
	triggers []string
	reply    string
}

var smallTalkRules = []smallTalkRule{
	{
		triggers: []string{"halo", "hai", "hello", "selamat"},
		reply:    "Halo! Selamat datang di chatbot DPMPTSP Jawa Tengah. Saya siap membantu Anda dengan informasi pelayanan perizinan dan investasi.",
	},
	{
		triggers: []string{"info", "layanan", "bantuan"},
		reply:    "Saya dapat membantu Anda dengan informasi tentang perizinan berusaha, investasi, dan layanan DPMPTSP Jawa Tengah lainnya. Silakan tanyakan apa yang Anda butuhkan.",
	},
	{
		triggers: []string{"terima kasih", "thanks", "makasih"},
		reply:    "Sama-sama! Senang bisa membantu Anda. Jika ada pertanyaan lain tentang layanan DPMPTSP, jangan ragu untuk bertanya.",
	},
}

// smallTalkMaxWords keeps the trigger words from hijacking real questions:
// "jam layanan DPMPTSP Semarang" must reach the pipeline even though it
// contains "layanan".
const smallTalkMaxWords = 3

// DetectSmallTalk returns a canned reply for greetings, help requests and
// thanks. Only short queries qualify; anything longer is assumed to be a real
// question and goes through retrieval.
func DetectSmallTalk(query string) (string, bool) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return "", false
	}
	if len(strings.Fields(trimmed)) > smallTalkMaxWords {
		return "", false
	}

	lower := strings.ToLower(trimmed)
	for _, rule := range smallTalkRules {
		for _, trigger := range rule.triggers {
			if strings.Contains(lower, trigger) {
				return rule.reply, true
			}
		}
	}
	return "", false
}

var (
	docRefPattern     = regexp.MustCompile(`\[Doc\d+\]`)
	docHeaderPattern  = regexp.MustCompile(`Document \d+:`)
	sourceLinePattern = regexp.MustCompile(`Source:.*`)
	blankRunPattern   = regexp.MustCompile(`\n\s*\n`)
)

// CleanAnswer strips retrieval artifacts the model sometimes echoes back
// (document markers, source lines) and collapses blank-line runs.
func CleanAnswer(answer string) string {
	cleaned := docRefPattern.ReplaceAllString(answer, "")
	cleaned = docHeaderPattern.ReplaceAllString(cleaned, "")
	cleaned = sourceLinePattern.ReplaceAllString(cleaned, "")
	cleaned = blankRunPattern.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// truncationLength is the answer size above which a missing terminal
// punctuation mark is treated as a cut-off.
const truncationLength = 1400

// EnsureComplete appends TruncationNotice when a long answer does not end on
// sentence punctuation, which usually means the token limit cut it off.
func EnsureComplete(answer string) string {
	if len(answer) <= truncationLength {
		return answer
	}
	switch {
	case strings.HasSuffix(answer, "."),
		strings.HasSuffix(answer, "!"),
		strings.HasSuffix(answer, "?"),
		strings.HasSuffix(answer, ":"):
		return answer
	}
	return answer + "\n\n" + TruncationNotice
}
