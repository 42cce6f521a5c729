package profile

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
)

// maxSummaryBytes caps an imported summary.
const maxSummaryBytes = 2000

// ReadResume extracts plain text from a PDF and normalizes it into a summary:
// whitespace runs are collapsed and the result is cut to maxSummaryBytes
// without splitting a UTF-8 sequence.
func ReadResume(path string) (string, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening resume: %w", err)
	}
	defer f.Close()

	text, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extracting resume text: %w", err)
	}
	b, err := io.ReadAll(text)
	if err != nil {
		return "", fmt.Errorf("reading resume text: %w", err)
	}

	summary := normalizeSummary(string(b))
	if summary == "" {
		return "", fmt.Errorf("resume %s contains no extractable text", path)
	}
	return summary, nil
}

// ImportResume replaces the professional summary with text read from a PDF.
func (m *Manager) ImportResume(path string) (string, error) {
	summary, err := ReadResume(path)
	if err != nil {
		return "", err
	}
	if err := m.UpdateField(FieldProfessionalSummary, summary); err != nil {
		return "", err
	}
	return summary, nil
}

func normalizeSummary(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) <= maxSummaryBytes {
		return s
	}
	end := maxSummaryBytes
	for end > 0 && !utf8.RuneStart(s[end]) {
		end--
	}
	return s[:end]
}
