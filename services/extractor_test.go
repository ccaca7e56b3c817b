package services

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildDOCX(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("failed to create zip entry: %v", err)
	}
	if _, err := w.Write([]byte(documentXML)); err != nil {
		t.Fatalf("failed to write zip entry: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip: %v", err)
	}
	return buf.Bytes()
}

func TestExtractTextDOCX(t *testing.T) {
	documentXML := `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
	<w:body>
		<w:p><w:r><w:t>Jane Doe</w:t></w:r><w:r><w:t> - Backend Engineer</w:t></w:r></w:p>
		<w:p><w:r><w:t>Go, Docker, PostgreSQL</w:t></w:r></w:p>
	</w:body>
</w:document>`

	svc := NewExtractorService()
	got := svc.ExtractText(buildDOCX(t, documentXML), "resume.docx")

	want := "Jane Doe - Backend Engineer\nGo, Docker, PostgreSQL"
	if got != want {
		t.Errorf("ExtractText() = %q, want %q", got, want)
	}
}

func TestExtractTextDOCXMissingDocument(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, _ := zw.Create("word/other.xml")
	w.Write([]byte("<x/>"))
	zw.Close()

	svc := NewExtractorService()
	if got := svc.ExtractText(buf.Bytes(), "resume.docx"); got != "" {
		t.Errorf("ExtractText() = %q, want empty for archive without document.xml", got)
	}
}

func TestExtractTextFailSoft(t *testing.T) {
	svc := NewExtractorService()

	tests := []struct {
		name     string
		data     []byte
		filename string
	}{
		{"unsupported extension", []byte("plain text"), "resume.txt"},
		{"empty data", nil, "resume.pdf"},
		{"corrupt pdf", []byte("definitely not a pdf"), "resume.pdf"},
		{"corrupt docx", []byte("definitely not a zip"), "resume.docx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.ExtractText(tt.data, tt.filename); got != "" {
				t.Errorf("ExtractText() = %q, want empty", got)
			}
		})
	}
}
