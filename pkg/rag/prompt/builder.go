package prompt

import (
	"strings"
)

// SystemInstruction frames the assistant for the generation step. Questions
// arrive in Indonesian and answers must come back in Indonesian, but the
// instruction itself stays in English because the generation models follow it
// more reliably that way.
const SystemInstruction = `You are a helpful assistant for Central Java (Jawa Tengah) government information system DPMPTSP (Dinas Penanaman Modal dan Pelayanan Terpadu Satu Pintu).

Guidelines:
- Answer questions about DPMPTSP services, procedures, permits, and Central Java government data
- Use ONLY the information provided in the <context> section
- For Indonesian questions, respond in Indonesian with proper language
- Provide specific, accurate information based on the context
- If the context doesn't contain relevant information, say "Maaf, informasi yang Anda cari tidak tersedia dalam database saat ini"
- Focus on DPMPTSP services, investment, permits, government procedures, and regional data
- Be concise, clear, and professional
- Do NOT reference document numbers or file paths in your response
- Present information naturally without mentioning "Dokumen" or source references`

// ContextualBuilder assembles the user prompt for answer generation: task
// framing, the question, the answer requirements, and the retrieved document
// context.
type ContextualBuilder struct {
	query      string
	docContext string
}

// NewContextualBuilder creates a new contextual prompt builder
func NewContextualBuilder(query, docContext string) *ContextualBuilder {
	return &ContextualBuilder{
		query:      query,
		docContext: docContext,
	}
}

// Build creates the user message handed to the LLM alongside SystemInstruction
func (b *ContextualBuilder) Build() string {
	var prompt strings.Builder

	// Frame the task
	b.writeTask(&prompt)

	// Inject user query
	b.writeQuestion(&prompt)

	// Set answer requirements
	b.writeRequirements(&prompt)

	// Inject retrieved documents
	b.writeContext(&prompt)

	return prompt.String()
}

func (b *ContextualBuilder) writeTask(prompt *strings.Builder) {
	prompt.WriteString("Berdasarkan konteks dokumen pemerintah Jawa Tengah tentang DPMPTSP dan pelayanan publik, jawab pertanyaan berikut dengan lengkap dan akurat:\n\n")
}

func (b *ContextualBuilder) writeQuestion(prompt *strings.Builder) {
	prompt.WriteString("Pertanyaan: ")
	prompt.WriteString(b.query)
	prompt.WriteString("\n\n")
}

func (b *ContextualBuilder) writeRequirements(prompt *strings.Builder) {
	prompt.WriteString("Berikan jawaban yang:\n")
	prompt.WriteString("1. LENGKAP dan DETAIL - jangan potong jawaban di tengah\n")
	prompt.WriteString("2. Spesifik dan relevan dengan DPMPTSP Jawa Tengah\n")
	prompt.WriteString("3. Menggunakan bahasa Indonesia yang jelas dan mudah dipahami\n")
	prompt.WriteString("4. Menyertakan prosedur atau langkah-langkah jika relevan\n")
	prompt.WriteString("5. Merujuk pada peraturan atau kebijakan yang berlaku\n")
	prompt.WriteString("6. Pastikan semua informasi penting tersampaikan dengan baik\n")
	prompt.WriteString("\n")
	prompt.WriteString("PENTING: Berikan jawaban yang UTUH dan TIDAK TERPOTONG sampai selesai.\n\n")
}

func (b *ContextualBuilder) writeContext(prompt *strings.Builder) {
	prompt.WriteString("<context>\n")
	prompt.WriteString(b.docContext)
	prompt.WriteString("\n</context>")
}
