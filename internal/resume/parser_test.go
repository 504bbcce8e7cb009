package resume

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "whitespace collapsed",
			in:   "John  Doe\n\nSoftware   Engineer\t10 years",
			want: "John Doe Software Engineer 10 years",
		},
		{
			name: "special characters removed",
			in:   "C++ & C# developer (remote) — john@corp.example!",
			want: "C C developer remote johncorp.example",
		},
		{
			name: "periods and commas kept",
			in:   "Skills: Go, Python, SQL.",
			want: "Skills Go, Python, SQL.",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
		{
			name: "only special characters",
			in:   "***###",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestParseTxtFile(t *testing.T) {
	parser := NewParser(t.TempDir(), zaptest.NewLogger(t))

	text, err := parser.Parse("cv.txt", strings.NewReader("Jane Doe\nPlatform engineer,  Go & Kubernetes"))
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe Platform engineer, Go Kubernetes", text)
}

func TestParseEmptyFile(t *testing.T) {
	parser := NewParser(t.TempDir(), zaptest.NewLogger(t))

	_, err := parser.Parse("empty.txt", strings.NewReader("   \n  "))
	require.ErrorIs(t, err, ErrNoText)
}

func TestParseUnsupportedType(t *testing.T) {
	parser := NewParser(t.TempDir(), zaptest.NewLogger(t))

	_, err := parser.Parse("photo.png", strings.NewReader("binary"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestParseStripsPathFromFilename(t *testing.T) {
	dir := t.TempDir()
	parser := NewParser(dir, zaptest.NewLogger(t))

	// A hostile filename must not escape the uploads directory.
	text, err := parser.Parse("../../etc/cv.txt", strings.NewReader("content here"))
	require.NoError(t, err)
	assert.Equal(t, "content here", text)
}
