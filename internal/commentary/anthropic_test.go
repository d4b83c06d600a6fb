package commentary

import (
	"testing"

	"github.com/pbaille/witness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RequiresAPIKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := New()
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	snap := &domain.Snapshot{
		Date:   "2026-08-26",
		Layers: []domain.Layer{{Name: "Kernel"}, {Name: "Ports"}},
	}
	report := "Total layers: 2\nDelta: +1\n"

	prompt := buildPrompt(snap, report)
	require.Contains(t, prompt, report)
	assert.Contains(t, prompt, "- Kernel\n")
	assert.Contains(t, prompt, "- Ports\n")
}

func TestCleanResponse(t *testing.T) {
	assert.Equal(t, "plain prose", cleanResponse("plain prose"))
	assert.Equal(t, "fenced prose", cleanResponse("```\nfenced prose\n```"))
	assert.Equal(t, "padded", cleanResponse("  padded \n"))
}
