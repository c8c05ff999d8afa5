package export

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-builder/resume/render"
)

// Format is a downloadable rendition of a resume.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatHTML Format = "html"
	FormatPDF  Format = "pdf"
	FormatJSON Format = "json"
)

const (
	ContentTypeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	ContentTypeHTML = "text/html; charset=utf-8"
	ContentTypePDF  = "application/pdf"
	ContentTypeJSON = "application/json"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts a case-insensitive format name.
func ParseFormat(raw string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(raw))); f {
	case FormatDOCX, FormatHTML, FormatPDF, FormatJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, raw)
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// Printer turns a document into PDF bytes.
type Printer interface {
	Print(ctx context.Context, doc render.Document) ([]byte, error)
}

// Exporter dispatches a document to the requested format.
type Exporter struct {
	PDF Printer
}

// Export returns the rendition bytes and their content type.
func (e Exporter) Export(ctx context.Context, doc render.Document, format Format) ([]byte, string, error) {
	switch format {
	case FormatDOCX:
		data, err := DOCX(doc)
		return data, ContentTypeDOCX, err
	case FormatHTML:
		data, err := HTML(doc)
		return data, ContentTypeHTML, err
	case FormatJSON:
		data, err := json.MarshalIndent(doc, "", "  ")
		return data, ContentTypeJSON, err
	case FormatPDF:
		if e.PDF == nil {
			return nil, "", fmt.Errorf("%w: pdf printer not configured", ErrUnsupportedFormat)
		}
		data, err := e.PDF.Print(ctx, doc)
		return data, ContentTypePDF, err
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
