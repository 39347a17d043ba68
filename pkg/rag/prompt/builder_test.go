package prompt

import (
	"strings"
	"testing"
)

func TestBuildContainsAllSections(t *testing.T) {
	b := NewContextualBuilder("Bagaimana cara mengurus NIB?", "NIB diterbitkan melalui sistem OSS.")
	got := b.Build()

	for _, want := range []string{
		"jawab pertanyaan berikut dengan lengkap dan akurat",
		"Pertanyaan: Bagaimana cara mengurus NIB?",
		"1. LENGKAP dan DETAIL",
		"PENTING: Berikan jawaban yang UTUH",
		"<context>\nNIB diterbitkan melalui sistem OSS.\n</context>",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("prompt missing %q:\n%s", want, got)
		}
	}
}

func TestBuildOrdering(t *testing.T) {
	b := NewContextualBuilder("pertanyaan", "konteks")
	got := b.Build()

	question := strings.Index(got, "Pertanyaan:")
	requirements := strings.Index(got, "Berikan jawaban yang:")
	contextBlock := strings.Index(got, "<context>")

	if !(question < requirements && requirements < contextBlock) {
		t.Errorf("sections out of order: question=%d requirements=%d context=%d", question, requirements, contextBlock)
	}
}

func TestSystemInstructionMentionsFallback(t *testing.T) {
	if !strings.Contains(SystemInstruction, "Maaf, informasi yang Anda cari tidak tersedia") {
		t.Error("system instruction must tell the model what to say when context is empty")
	}
	if !strings.Contains(SystemInstruction, "DPMPTSP") {
		t.Error("system instruction must name the agency")
	}
}
