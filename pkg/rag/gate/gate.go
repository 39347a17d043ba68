package gate

import (
	"regexp"
	"strings"
)

// Gate decides whether a question belongs to the DPMPTSP / Central Java
// government domain before any retrieval work is spent on it.
//
// Positive keyword hits win over negative patterns, and a query matching
// neither list is let through: rejecting a resident's question wrongly is
// worse than answering an odd one.
type Gate struct {
	domainKeywords     []string
	irrelevantPatterns []*regexp.Regexp
}

// Domain vocabulary for DPMPTSP Jawa Tengah: institution names, permit
// terminology, and business entity terms.
var defaultDomainKeywords = []string{
	"dpmptsp", "perizinan", "izin", "investasi", "jawa tengah", "central java",
	"penanaman modal", "pelayanan terpadu", "satu pintu", "provinsi",
	"gubernur", "pemerintah", "kebijakan", "layanan", "prosedur",
	"pendaftaran", "berkas", "persyaratan", "dokumen", "online",
	"usaha", "bisnis", "perusahaan", "cv", "pt", "umkm", "startup",
	"nib", "oss", "pbg", "slf", "amdal", "lkpm",
}

// Topics the chatbot must not wander into.
var defaultIrrelevantPatterns = []string{
	`\bweather\b`, `\bnews\b`, `\bprice\b`, `\bcovid\b`,
	`\bbitcoin\b`, `\bcrypto\b`, `\bfood\b`, `\brecipe\b`,
	`\bmovie\b`, `\bmusic\b`, `\bgame\b`, `\bsport\b`,
	`\bcuaca\b`, `\bresep\b`, `\bfilm\b`, `\bmusik\b`, `\bsepak bola\b`,
}

func NewGate() *Gate {
	patterns := make([]*regexp.Regexp, 0, len(defaultIrrelevantPatterns))
	for _, p := range defaultIrrelevantPatterns {
		patterns = append(patterns, regexp.MustCompile(p))
	}
	return &Gate{
		domainKeywords:     defaultDomainKeywords,
		irrelevantPatterns: patterns,
	}
}

// IsDomainRelevant reports whether the query should enter the retrieval
// pipeline.
func (g *Gate) IsDomainRelevant(query string) bool {
	queryLower := strings.ToLower(query)

	for _, keyword := range g.domainKeywords {
		if strings.Contains(queryLower, keyword) {
			return true
		}
	}

	for _, pattern := range g.irrelevantPatterns {
		if pattern.MatchString(queryLower) {
			return false
		}
	}

	return true
}
