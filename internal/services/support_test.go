package services

import (
	"encoding/json"
	"testing"

	"edulearn_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitSupports(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", []string{}},
		{"whitespace only", "   ", []string{}},
		{"only separators", " , ,, ", []string{}},
		{"trimmed in order", " a , b,c ", []string{"a", "b", "c"}},
		{"duplicates kept", "x,y,x", []string{"x", "y", "x"}},
		{"single", "https://cdn.edulearn.fr/cours/intro.pdf", []string{"https://cdn.edulearn.fr/cours/intro.pdf"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SplitSupports(tc.raw))
		})
	}
}

func TestSupportFieldArrayRoundTrip(t *testing.T) {
	var req dto.CreateCourseRequest
	require.NoError(t, json.Unmarshal([]byte(`{"support":["a"," b ","","a"]}`), &req))
	require.NotNil(t, req.Support)
	assert.Equal(t, []string{"a", "b", "a"}, SplitSupports(req.Support.Raw))

	require.NoError(t, json.Unmarshal([]byte(`{"support":"a, b"}`), &req))
	assert.Equal(t, []string{"a", "b"}, SplitSupports(req.Support.Raw))

	assert.Error(t, json.Unmarshal([]byte(`{"support":42}`), &req))
}

func TestSupportFileName(t *testing.T) {
	assert.Equal(t, "intro.pdf", SupportFileName("https://cdn.edulearn.fr/cours/intro.pdf"))
	assert.Equal(t, "notes", SupportFileName("notes"))
	assert.Equal(t, "fichier", SupportFileName("https://cdn.edulearn.fr/cours/"))
}

func TestBuildSupportsPlaceholders(t *testing.T) {
	supports := buildSupports("https://x/a.pdf, https://x/")
	if assert.Len(t, supports, 2) {
		assert.Equal(t, "a.pdf", supports[0].FileName)
		assert.Equal(t, "fichier", supports[1].FileName)
		assert.Equal(t, "application/octet-stream", supports[0].FileType)
		assert.Zero(t, supports[0].FileSize)
	}
}
