package resume

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func doc(name, body string) *Document {
	return &Document{Name: name, Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestFileSource_ExtractText(t *testing.T) {
	src := NewFileSource(0, nil, nil)

	text, err := src.ExtractText(doc("jane.md", "\xEF\xBB\xBF# Jane Doe\r\n\r\n\r\n\r\nGo   developer\r\n  - Built APIs  \n"))
	require.NoError(t, err)
	assert.Equal(t, "# Jane Doe\n\nGo developer\n  - Built APIs", text)
}

func TestFileSource_Windows1252Fallback(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	src := NewFileSource(0, nil, zap.New(core))

	// "Café résumé" in Windows-1252
	text, err := src.ExtractText(doc("cv.txt", "Caf\xe9 r\xe9sum\xe9"))
	require.NoError(t, err)

	assert.Equal(t, "Café résumé", text)
	assert.Equal(t, 1, logs.FilterMessage("used Windows-1252 encoding as fallback").Len())
}

func TestFileSource_Errors(t *testing.T) {
	tests := []struct {
		name   string
		source *FileSource
		doc    *Document
		want   error
	}{
		{
			name:   "pdf not supported",
			source: NewFileSource(0, nil, nil),
			doc:    doc("cv.pdf", "%PDF-1.4"),
			want:   ErrUnsupportedFormat,
		},
		{
			name:   "no extension",
			source: NewFileSource(0, nil, nil),
			doc:    doc("resume", "text"),
			want:   ErrUnsupportedFormat,
		},
		{
			name:   "declared size too large",
			source: NewFileSource(10, nil, nil),
			doc:    &Document{Name: "cv.txt", Size: 11, Body: strings.NewReader("short")},
			want:   ErrSizeExceeded,
		},
		{
			name:   "undeclared size too large",
			source: NewFileSource(10, nil, nil),
			doc:    &Document{Name: "cv.txt", Body: strings.NewReader(strings.Repeat("a", 11))},
			want:   ErrSizeExceeded,
		},
		{
			name:   "empty file",
			source: NewFileSource(0, nil, nil),
			doc:    doc("cv.txt", " \n\n "),
			want:   ErrReadError,
		},
		{
			name:   "reader failure",
			source: NewFileSource(0, nil, nil),
			doc:    &Document{Name: "cv.txt", Body: iotest.ErrReader(errors.New("disk gone"))},
			want:   ErrReadError,
		},
		{
			name:   "nil document",
			source: NewFileSource(0, nil, nil),
			doc:    nil,
			want:   ErrReadError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.source.ExtractText(tt.doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var formatErr *FormatError
			assert.True(t, errors.As(err, &formatErr))
		})
	}
}

func TestFileSource_ExtensionCaseInsensitive(t *testing.T) {
	src := NewFileSource(0, []string{".txt"}, nil)

	text, err := src.ExtractText(doc("CV.TXT", "hello"))
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jane.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe"), 0o644))

	d, closer, err := Open(path)
	require.NoError(t, err)
	defer func() { _ = closer.Close() }()

	assert.Equal(t, "jane.txt", d.Name)
	assert.Equal(t, int64(8), d.Size)

	text, err := NewFileSource(0, nil, nil).ExtractText(d)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", text)

	_, _, err = Open(filepath.Join(t.TempDir(), "missing.txt"))
	assert.ErrorIs(t, err, ErrReadError)
}

func TestFormatError_Error(t *testing.T) {
	err := &FormatError{Name: "cv.pdf", Kind: ErrUnsupportedFormat, Message: "pdf"}
	assert.Equal(t, "cv.pdf: unsupported file format: pdf", err.Error())
	assert.False(t, errors.Is(err, ErrSizeExceeded))
}
