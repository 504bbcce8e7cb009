package resume

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"code.sajari.com/docconv"
	"go.uber.org/zap"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	specialChars   = regexp.MustCompile(`[^\w\s.,]`)
)

// ErrNoText is returned when a document yields no usable text, typically an
// image-only PDF.
var ErrNoText = fmt.Errorf("no extractable text in document")

type Parser struct {
	uploadsDir string
	log        *zap.Logger
}

func NewParser(uploadsDir string, log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{
		uploadsDir: uploadsDir,
		log:        log,
	}
}

// Parse extracts and cleans text from an uploaded resume or policy document.
// Supported formats: PDF, DOCX, DOC, RTF, ODT and plain text.
func (p *Parser) Parse(filename string, reader io.Reader) (string, error) {
	// docconv works on paths, so the upload is spooled to disk first.
	if err := os.MkdirAll(p.uploadsDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads dir: %w", err)
	}

	filePath := filepath.Join(p.uploadsDir, filepath.Base(filename))
	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return "", fmt.Errorf("failed to save file: %w", err)
	}

	fileType := strings.ToLower(filepath.Ext(filename))
	var text string

	switch fileType {
	case ".pdf", ".docx", ".doc", ".rtf", ".odt":
		res, err := docconv.ConvertPath(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to parse document: %w", err)
		}
		text = res.Body
	case ".txt":
		content, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("failed to read text file: %w", err)
		}
		text = string(content)
	default:
		return "", fmt.Errorf("unsupported file type: %s", fileType)
	}

	if strings.TrimSpace(text) == "" {
		p.log.Warn("no text extracted, document may be image-based",
			zap.String("filename", filename))
		return "", ErrNoText
	}

	cleaned := Clean(text)
	if cleaned == "" {
		return "", ErrNoText
	}

	if len(cleaned) < len(text)/5 {
		p.log.Warn("text cleaning removed most of the document",
			zap.String("filename", filename),
			zap.Int("original_length", len(text)),
			zap.Int("cleaned_length", len(cleaned)))
	}

	return cleaned, nil
}

// Clean normalizes extracted text: characters other than word characters,
// whitespace, periods and commas are dropped, then whitespace runs collapse
// to single spaces.
func Clean(text string) string {
	text = specialChars.ReplaceAllString(text, "")
	text = whitespaceRuns.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
