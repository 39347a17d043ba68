package extract

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFileText(t *testing.T) {
	path := writeFile(t, "panduan.txt", "Panduan pengajuan izin usaha.")

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if got != "Panduan pengajuan izin usaha." {
		t.Errorf("got %q", got)
	}
}

func TestFileCSV(t *testing.T) {
	path := writeFile(t, "data.csv", "kabupaten,jumlah\nSemarang,120\nSolo,\n")

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}

	for _, want := range []string{
		"Dataset: data.csv",
		"Columns: kabupaten, jumlah",
		"Total Records: 2",
		"Record 1: kabupaten: Semarang | jumlah: 120",
		"Record 2: kabupaten: Solo",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if strings.Contains(got, "jumlah: \n") {
		t.Error("empty cells should be skipped")
	}
}

func TestFileJSON(t *testing.T) {
	path := writeFile(t, "layanan.json", `{"layanan":"NIB","durasi_hari":7}`)

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	if !strings.Contains(got, "JSON Document: layanan.json") {
		t.Errorf("missing document header:\n%s", got)
	}
	if !strings.Contains(got, `"layanan": "NIB"`) {
		t.Errorf("json not pretty printed:\n%s", got)
	}
}

func TestFileJSONInvalid(t *testing.T) {
	path := writeFile(t, "rusak.json", "{bukan json")

	if _, err := File(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestFileXLSX(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rekap.xlsx")

	f := excelize.NewFile()
	if err := f.SetCellValue("Sheet1", "A1", "layanan"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "B1", "jumlah"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "A2", "NIB"); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SetCellValue("Sheet1", "B2", 42); err != nil {
		t.Fatalf("set cell: %v", err)
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close workbook: %v", err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File: %v", err)
	}
	for _, want := range []string{
		"Spreadsheet: rekap.xlsx",
		"Sheet: Sheet1",
		"Columns: layanan, jumlah",
		"Record 1: layanan: NIB | jumlah: 42",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
}

func TestFileUnsupported(t *testing.T) {
	path := writeFile(t, "laporan.docx", "tidak didukung")

	_, err := File(path)
	if !errors.Is(err, ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestFilePDFMissing(t *testing.T) {
	if _, err := PDF(filepath.Join(t.TempDir(), "hilang.pdf")); err == nil {
		t.Fatal("expected error for missing pdf")
	}
}

func TestSupportedExtension(t *testing.T) {
	for ext, want := range map[string]bool{
		".txt":  true,
		".PDF":  true,
		".csv":  true,
		".xlsx": true,
		".json": true,
		".xls":  false,
		".docx": false,
		"":      false,
	} {
		if got := SupportedExtension(ext); got != want {
			t.Errorf("SupportedExtension(%q) = %v, want %v", ext, got, want)
		}
	}
}

func TestWithProvenance(t *testing.T) {
	got := WithProvenance("data/wilayah/semarang.csv", "isi dokumen")

	for _, want := range []string{
		"Source: semarang.csv",
		"File Type: .csv",
		"Path: data/wilayah/semarang.csv",
		"isi dokumen",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q in:\n%s", want, got)
		}
	}
	if !strings.Contains(got, "\n\nisi dokumen") {
		t.Error("header must be separated from the body by a blank line")
	}
}
