package expand

import "strings"

// MaxVariants caps how many query variants leave the expander, original
// included. Every extra variant costs an embedding call downstream.
const MaxVariants = 5

// topicRule widens a query around one topic: suffixes append search terms,
// replacements swap a phrase for its counterpart in the other language.
type topicRule struct {
	triggers     []string
	suffixes     []string
	replacements [][2]string
}

var topicRules = []topicRule{
	{
		triggers: []string{"employment", "kerja"},
		suffixes: []string{"tenaga kerja", "employment placement"},
		replacements: [][2]string{
			{"employment", "job placement"},
			{"kerja", "employment"},
		},
	},
	{
		triggers: []string{"population", "penduduk"},
		suffixes: []string{"demographic data", "census"},
		replacements: [][2]string{
			{"population", "demographic"},
			{"penduduk", "population"},
		},
	},
	{
		triggers: []string{"health", "kesehatan"},
		suffixes: []string{"medical services", "healthcare statistics"},
		replacements: [][2]string{
			{"health", "medical"},
			{"kesehatan", "health"},
		},
	},
	{
		triggers: []string{"izin", "permit"},
		suffixes: []string{"persyaratan dokumen", "prosedur pengurusan"},
		replacements: [][2]string{
			{"izin usaha", "perizinan berusaha"},
		},
	},
	{
		triggers: []string{"investasi", "investment", "penanaman modal"},
		suffixes: []string{"penanaman modal", "investment data"},
		replacements: [][2]string{
			{"investasi", "penanaman modal"},
		},
	},
}

var locationTriggers = []string{"central java", "jawa tengah", "jateng"}

var locationSwaps = [][2]string{
	{"central java", "jawa tengah"},
	{"jawa tengah", "central java"},
	{"jateng", "central java"},
}

// Expander produces retrieval variants for a user question. It is a pure
// string transformation: no embedding or network work happens here.
type Expander struct{}

func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the original query first, followed by rule-generated
// variants, deduplicated in order of first occurrence and capped at
// MaxVariants. The original query always survives the cap.
func (e *Expander) Expand(query string) []string {
	query = strings.TrimSpace(query)
	if query == "" {
		return []string{""}
	}

	queries := []string{query}
	queryLower := strings.ToLower(query)

	for _, rule := range topicRules {
		if !containsAny(queryLower, rule.triggers) {
			continue
		}
		for _, suffix := range rule.suffixes {
			queries = append(queries, query+" "+suffix)
		}
		for _, repl := range rule.replacements {
			if strings.Contains(queryLower, repl[0]) {
				queries = append(queries, strings.ReplaceAll(queryLower, repl[0], repl[1]))
			}
		}
	}

	// Region names get swapped across every variant collected so far.
	if containsAny(queryLower, locationTriggers) {
		base := make([]string, len(queries))
		copy(base, queries)
		for _, q := range base {
			qLower := strings.ToLower(q)
			for _, swap := range locationSwaps {
				if strings.Contains(qLower, swap[0]) {
					queries = append(queries, strings.ReplaceAll(qLower, swap[0], swap[1]))
				}
			}
		}
	}

	return dedupe(queries, MaxVariants)
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func dedupe(queries []string, limit int) []string {
	seen := make(map[string]bool, len(queries))
	unique := make([]string, 0, limit)
	for _, q := range queries {
		if seen[q] {
			continue
		}
		seen[q] = true
		unique = append(unique, q)
		if len(unique) == limit {
			break
		}
	}
	return unique
}
