package gate

import "testing"

func TestIsDomainRelevant(t *testing.T) {
	g := NewGate()

	tests := []struct {
		name     string
		query    string
		relevant bool
	}{
		{
			name:     "permit question",
			query:    "Bagaimana cara mengurus izin usaha di Semarang?",
			relevant: true,
		},
		{
			name:     "investment question in english",
			query:    "What are the investment opportunities in Central Java?",
			relevant: true,
		},
		{
			name:     "uppercase keyword",
			query:    "Apa saja layanan DPMPTSP?",
			relevant: true,
		},
		{
			name:     "crypto rejected",
			query:    "What is the bitcoin price today?",
			relevant: false,
		},
		{
			name:     "weather rejected",
			query:    "How is the weather in Jakarta?",
			relevant: false,
		},
		{
			name:     "recipe in indonesian rejected",
			query:    "Bagikan resep nasi goreng enak",
			relevant: false,
		},
		{
			name:     "keyword beats negative pattern",
			query:    "Apakah ada izin untuk usaha recipe box?",
			relevant: true,
		},
		{
			name:     "neither list falls open",
			query:    "Siapa kepala dinas saat ini?",
			relevant: true,
		},
		{
			name:     "substring match inside word",
			query:    "informasi seputar perizinan berusaha",
			relevant: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.IsDomainRelevant(tt.query); got != tt.relevant {
				t.Errorf("IsDomainRelevant(%q) = %v, want %v", tt.query, got, tt.relevant)
			}
		})
	}
}
