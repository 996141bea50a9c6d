package cv

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode"

	"code.sajari.com/docconv"
	"github.com/ledongthuc/pdf"

	"resume-intake/internal/apperr"
)

const pdfMimeType = "application/pdf"

// ExtractResult is the visible text of a PDF, one newline-terminated segment per page.
type ExtractResult struct {
	Text      string
	PageCount int
}

// ValidatePDF rejects anything that is not a non-empty PDF file.
func ValidatePDF(filename, contentType string, data []byte) error {
	if len(data) == 0 {
		return apperr.Input("Please upload a PDF file")
	}

	byName := docconv.MimeTypeByExtension(strings.ToLower(filepath.Base(filename))) == pdfMimeType
	byType := strings.HasPrefix(strings.ToLower(contentType), pdfMimeType)
	if !byName && !byType {
		return apperr.Input("Please upload a PDF file")
	}
	// content sniffing catches renamed files
	if http.DetectContentType(data) != pdfMimeType {
		return apperr.Input("Please upload a PDF file")
	}
	return nil
}

// ExtractPDFText returns the text of every page in page order. Text items of a
// page are joined by single spaces and each page ends with a newline, so an
// N page document always yields N segments, blank pages included.
func ExtractPDFText(data []byte) (res *ExtractResult, err error) {
	// the parser panics on some malformed inputs
	defer func() {
		if r := recover(); r != nil {
			res = nil
			err = apperr.Extraction(fmt.Errorf("%v", r))
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, apperr.Extraction(err)
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, apperr.Extraction(errors.New("document has no pages"))
	}

	var text strings.Builder
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if !page.V.IsNull() {
			content, err := page.GetPlainText(nil)
			if err != nil {
				return nil, apperr.Extraction(fmt.Errorf("page %d: %w", i, err))
			}
			text.WriteString(strings.Join(strings.Fields(stripControl(content)), " "))
		}
		text.WriteByte('\n')
	}

	return &ExtractResult{Text: text.String(), PageCount: numPages}, nil
}

// stripControl drops control characters that are not whitespace. Some fonts
// decode to NUL padded runs, and PostgreSQL text columns reject NUL.
func stripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}
