package services

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"pdf-chat-backend/internal/logger"
)

// PDFExtractor pulls plain text out of uploaded PDF bytes.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

// ExtractText concatenates the extractable text of every buffer, in input
// order, page order within each document. A buffer that cannot be opened or
// iterated logs the failure and keeps whatever pages it already yielded;
// the caller decides what an empty overall result means.
func (e *PDFExtractor) ExtractText(buffers [][]byte) string {
	var sb strings.Builder
	for i, buf := range buffers {
		if err := appendPDFText(&sb, buf); err != nil {
			logger.Error("error reading a PDF", "file_index", i, "error", err)
		}
	}
	return sb.String()
}

// appendPDFText writes each page's text into sb as it goes, so a document
// failing partway through still contributes its readable pages. The parser
// panics on some malformed inputs; that is recovered and reported as an
// ordinary error.
func appendPDFText(sb *strings.Builder, buf []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf parser panic: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return err
	}

	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return err
		}
		sb.WriteString(text)
	}
	return nil
}
