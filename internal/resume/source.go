// Package resume reads uploaded resume documents into plain text.
package resume

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
)

// DefaultMaxBytes is the largest accepted document.
const DefaultMaxBytes int64 = 10 * 1024 * 1024

// DefaultExtensions lists the formats FileSource can read.
var DefaultExtensions = []string{".txt", ".md"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Document is an uploaded resume. Name is its identity for profile caching.
type Document struct {
	Name string
	Size int64
	Body io.Reader
}

// Open builds a Document from a file on disk.
func Open(path string) (*Document, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &FormatError{Name: filepath.Base(path), Kind: ErrReadError, Message: "failed to open file", Cause: err}
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, &FormatError{Name: filepath.Base(path), Kind: ErrReadError, Message: "failed to stat file", Cause: err}
	}
	return &Document{Name: filepath.Base(path), Size: info.Size(), Body: f}, f, nil
}

// TextSource supplies plain text for a document.
type TextSource interface {
	ExtractText(doc *Document) (string, error)
}

// FileSource reads plain-text and Markdown resumes.
type FileSource struct {
	MaxBytes   int64
	Extensions []string
	logger     *zap.Logger
}

// NewFileSource creates a source with the given limits; zero values use the defaults.
func NewFileSource(maxBytes int64, extensions []string, logger *zap.Logger) *FileSource {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{MaxBytes: maxBytes, Extensions: extensions, logger: logger}
}

// ExtractText validates the document and returns its cleaned text.
func (s *FileSource) ExtractText(doc *Document) (string, error) {
	if doc == nil || doc.Body == nil {
		return "", &FormatError{Kind: ErrReadError, Message: "no document provided"}
	}
	if err := s.validate(doc); err != nil {
		return "", err
	}

	// Read one byte past the limit so undeclared sizes are still enforced.
	data, err := io.ReadAll(io.LimitReader(doc.Body, s.MaxBytes+1))
	if err != nil {
		return "", &FormatError{Name: doc.Name, Kind: ErrReadError, Message: "failed to read file", Cause: err}
	}
	if int64(len(data)) > s.MaxBytes {
		return "", s.sizeError(doc.Name, int64(len(data)))
	}

	text, err := s.decode(doc.Name, data)
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", &FormatError{Name: doc.Name, Kind: ErrReadError, Message: "text file is empty"}
	}

	s.logger.Info("read resume", zap.String("document", doc.Name), zap.Int("bytes", len(data)))
	return text, nil
}

func (s *FileSource) validate(doc *Document) error {
	ext := strings.ToLower(filepath.Ext(doc.Name))
	allowed := false
	for _, e := range s.Extensions {
		if strings.EqualFold(e, ext) {
			allowed = true
			break
		}
	}
	if !allowed {
		return &FormatError{
			Name:    doc.Name,
			Kind:    ErrUnsupportedFormat,
			Message: fmt.Sprintf("file type %q is not supported, allowed types: %s", ext, strings.Join(s.Extensions, ", ")),
		}
	}
	if doc.Size > s.MaxBytes {
		return s.sizeError(doc.Name, doc.Size)
	}
	return nil
}

func (s *FileSource) sizeError(name string, size int64) error {
	const mb = 1024 * 1024
	return &FormatError{
		Name:    name,
		Kind:    ErrSizeExceeded,
		Message: fmt.Sprintf("file size (%.2f MB) exceeds maximum allowed size (%.2f MB)", float64(size)/mb, float64(s.MaxBytes)/mb),
	}
}

// decode returns UTF-8 text, falling back to Windows-1252 for legacy files.
func (s *FileSource) decode(name string, data []byte) (string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", &FormatError{Name: name, Kind: ErrReadError, Message: "could not decode text file", Cause: err}
	}
	s.logger.Warn("used Windows-1252 encoding as fallback", zap.String("document", name))
	return string(decoded), nil
}
