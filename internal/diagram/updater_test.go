package diagram

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pbaille/witness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const docWithDiagram = "title: Field Spec\n\nIntro prose stays as is.\n\n" +
	"!! Architecture Diagram\n\n" +
	"<svg>stale</svg>\n\n" +
	"!! Next Section\n\nTail prose stays as is.\n"

func writeTarget(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "spec.tid")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestUpdate_ReplacesMarkerRegion(t *testing.T) {
	path := writeTarget(t, docWithDiagram)

	err := Update(path, []domain.Layer{{Name: "Kernel", Color: "#444"}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "<svg>stale</svg>")
	assert.Contains(t, out, ">Kernel</text>")

	// Everything outside the region is untouched.
	assert.True(t, strings.HasPrefix(out, "title: Field Spec\n\nIntro prose stays as is.\n\n!! Architecture Diagram\n\n"))
	assert.True(t, strings.HasSuffix(out, "\n\n!! Next Section\n\nTail prose stays as is.\n"))
}

func TestUpdate_InsertsAfterBareHeading(t *testing.T) {
	path := writeTarget(t, "Intro.\n\n!! Architecture Diagram\n\nSome prose after the heading.\n")

	require.NoError(t, Update(path, []domain.Layer{{Name: "Bus"}}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, "!! Architecture Diagram\n\n<svg ")
	assert.Contains(t, out, "Some prose after the heading.")
}

func TestUpdate_TargetConditions(t *testing.T) {
	t.Run("missing document", func(t *testing.T) {
		err := Update(filepath.Join(t.TempDir(), "nope.tid"), []domain.Layer{{Name: "A"}})
		var notFound *domain.TargetNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Contains(t, notFound.Reason, "does not exist")
	})

	t.Run("missing marker", func(t *testing.T) {
		path := writeTarget(t, "A document with no diagram section at all.\n")
		err := Update(path, []domain.Layer{{Name: "A"}})
		var notFound *domain.TargetNotFoundError
		require.True(t, errors.As(err, &notFound))
		assert.Contains(t, notFound.Reason, "marker")
	})
}

func TestUpdate_EmptyLayersFallBackToPlaceholder(t *testing.T) {
	path := writeTarget(t, docWithDiagram)

	require.NoError(t, Update(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ζ-Engine Kernel")
}

func TestUpdate_Idempotent(t *testing.T) {
	path := writeTarget(t, docWithDiagram)
	layers := []domain.Layer{{Name: "Kernel"}, {Name: "Ports", Color: "#555"}}

	require.NoError(t, Update(path, layers))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, Update(path, layers))
	second, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}
