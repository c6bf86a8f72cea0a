// Package ingestion extracts plain text from uploaded resume documents.
package ingestion

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"code.sajari.com/docconv"

	"github.com/talentscout/hiring-assistant/internal/types"
)

// MaxResumeBytes caps the accepted upload size.
const MaxResumeBytes = 10 << 20 // 10 MiB

// supportedExtensions maps resume file extensions to MIME types for docconv.
var supportedExtensions = map[string]string{
	".pdf":  "application/pdf",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".doc":  "application/msword",
	".rtf":  "application/rtf",
	".odt":  "application/vnd.oasis.opendocument.text",
	".txt":  "text/plain",
}

// SupportedExtension reports whether a filename has an accepted extension.
func SupportedExtension(filename string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(filename))]
	return ok
}

// ExtractText pulls the plain text out of a resume document. The filename's
// extension selects the converter.
func ExtractText(r io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	mimeType, ok := supportedExtensions[ext]
	if !ok {
		return "", &types.ValidationError{
			Field:   "resume",
			Message: fmt.Sprintf("unsupported file type %q (accepted: pdf, docx, doc, rtf, odt, txt)", ext),
		}
	}

	limited := io.LimitReader(r, MaxResumeBytes+1)

	var text string
	if ext == ".txt" {
		content, err := io.ReadAll(limited)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(content)
	} else {
		res, err := docconv.Convert(limited, mimeType, true)
		if err != nil {
			return "", fmt.Errorf("failed to parse document: %w", err)
		}
		text = res.Body
	}

	text = cleanText(text)
	if text == "" {
		return "", &types.ValidationError{Field: "resume", Message: "document contains no extractable text"}
	}
	if len(text) > MaxResumeBytes {
		return "", &types.ValidationError{Field: "resume", Message: "document too large"}
	}
	return text, nil
}

// cleanText trims each line and drops empty ones.
func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
