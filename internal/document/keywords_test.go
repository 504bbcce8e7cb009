package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "stopwords removed",
			query: "Find me a Python developer with 5 years of experience",
			want:  []string{"python", "5"},
		},
		{
			name:  "role nouns are stopwords",
			query: "senior Go engineer",
			want:  []string{"senior", "go"},
		},
		{
			name:  "all stopwords",
			query: "find me the developer with experience",
			want:  []string{},
		},
		{
			name:  "empty query",
			query: "",
			want:  []string{},
		},
		{
			name:  "punctuation split",
			query: "Kubernetes, Docker and AWS",
			want:  []string{"kubernetes", "docker", "and", "aws"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractKeywords(tt.query))
		})
	}
}

func TestContainsAny(t *testing.T) {
	text := "Built microservices in Go and deployed on Kubernetes"

	assert.True(t, containsAny(text, []string{"kubernetes"}))
	assert.True(t, containsAny(text, []string{"rust", "go"}))
	assert.False(t, containsAny(text, []string{"python", "java"}))
	assert.False(t, containsAny(text, nil))
}
