package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	site, err := Load()
	require.NoError(t, err)

	assert.NotEmpty(t, site.ContactEmail)
	assert.NotEmpty(t, site.Services)
	assert.NotEmpty(t, site.Portfolio)
	for _, kind := range []string{"privacy", "terms", "cookies"} {
		notice, err := site.Notice(kind)
		require.NoError(t, err, kind)
		assert.NotEmpty(t, notice.Content)
	}
}

func TestNotice_Unknown(t *testing.T) {
	site, err := Load()
	require.NoError(t, err)

	_, err = site.Notice("refunds")
	assert.ErrorIs(t, err, ErrUnknownNotice)
}

func TestParse_FallbackImage(t *testing.T) {
	site, err := Parse([]byte(`
fallbackImageURL: https://example.com/fallback.jpg
portfolio:
  - id: 1
    title: Neon Pulse
    category: Branding
  - id: 2
    title: Quantum
    category: Web
    imageURL: https://example.com/q.jpg
`))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/fallback.jpg", site.Portfolio[0].ImageURL)
	assert.Equal(t, "https://example.com/q.jpg", site.Portfolio[1].ImageURL)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no fallback", "portfolio: []"},
		{"duplicate ids", "fallbackImageURL: x\nportfolio:\n  - {id: 1, title: a}\n  - {id: 1, title: b}\n"},
		{"untitled item", "fallbackImageURL: x\nportfolio:\n  - {id: 1}\n"},
		{"empty notice", "fallbackImageURL: x\nlegal:\n  privacy: {title: Privacy}\n"},
		{"not yaml", "fallbackImageURL: [unclosed"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}
