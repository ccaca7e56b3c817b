package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractorService converts uploaded resume documents to plain text.
// Extraction is fail-soft: anything unreadable degrades to "" so an upload
// never fails on a bad document.
type ExtractorService struct{}

func NewExtractorService() *ExtractorService {
	return &ExtractorService{}
}

// ExtractText dispatches on the filename extension. Unsupported extensions
// and parse failures return "".
func (s *ExtractorService) ExtractText(data []byte, filename string) string {
	if len(data) == 0 {
		return ""
	}

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		text, err := s.extractPDF(data)
		if err != nil {
			slog.Warn("PDF extraction failed", "filename", filename, "error", err)
			return ""
		}
		return text
	case ".docx":
		text, err := s.extractDOCX(data)
		if err != nil {
			slog.Warn("DOCX extraction failed", "filename", filename, "error", err)
			return ""
		}
		return text
	default:
		slog.Warn("Unsupported document type", "filename", filename)
		return ""
	}
}

func (s *ExtractorService) extractPDF(data []byte) (text string, err error) {
	// The pdf package can panic on malformed files; keep that inside
	// the extraction boundary.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	totalPage := reader.NumPage()

	for pageIndex := 1; pageIndex <= totalPage; pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			slog.Warn("Failed to extract PDF page", "page", pageIndex, "error", err)
			continue
		}

		textBuilder.WriteString(pageText)
		textBuilder.WriteString("\n")
	}

	return strings.TrimSpace(textBuilder.String()), nil
}

// docx document.xml structure, paragraphs of text runs
type docxDocument struct {
	Body struct {
		Paragraphs []docxParagraph `xml:"p"`
	} `xml:"body"`
}

type docxParagraph struct {
	Runs []struct {
		Text string `xml:"t"`
	} `xml:"r"`
}

func (s *ExtractorService) extractDOCX(data []byte) (string, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX archive: %w", err)
	}

	var documentXML []byte
	for _, file := range zipReader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", fmt.Errorf("failed to open document.xml: %w", err)
			}
			documentXML, err = io.ReadAll(rc)
			rc.Close()
			if err != nil {
				return "", fmt.Errorf("failed to read document.xml: %w", err)
			}
			break
		}
	}
	if documentXML == nil {
		return "", fmt.Errorf("document.xml not found in archive")
	}

	var document docxDocument
	if err := xml.Unmarshal(documentXML, &document); err != nil {
		return "", fmt.Errorf("failed to parse document.xml: %w", err)
	}

	paragraphs := make([]string, 0, len(document.Body.Paragraphs))
	for _, paragraph := range document.Body.Paragraphs {
		var line strings.Builder
		for _, run := range paragraph.Runs {
			line.WriteString(run.Text)
		}
		paragraphs = append(paragraphs, line.String())
	}

	return strings.TrimSpace(strings.Join(paragraphs, "\n")), nil
}
