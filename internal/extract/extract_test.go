package extract

import (
	"testing"

	"github.com/pbaille/witness/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fenced(body string) string {
	return "```yaml\n" + body + "```\n"
}

func TestExtract_GateKeyword(t *testing.T) {
	t.Run("document without keyword yields nothing", func(t *testing.T) {
		doc := "Some unrelated notes.\n\n" +
			fenced("layers:\n  - {name: \"Hidden\", color: \"#f00\"}\n") +
			"* **Also Hidden**\n"

		layers, warnings := Extract(doc)
		assert.Empty(t, layers)
		assert.Empty(t, warnings)
	})

	t.Run("keyword check is case-insensitive substring", func(t *testing.T) {
		assert.True(t, Participates("The OPIC field."))
		assert.True(t, Participates("tags: Architecture diagram"))
		assert.False(t, Participates("plain text"))
	})
}

func TestExtract_StructuredBlock(t *testing.T) {
	doc := "This tiddler describes the opic field.\n\n" +
		fenced("layers:\n  - {name: \"Kernel\", color: \"#444\"}\n  - {name: \"Ports\"}\n")

	layers, warnings := Extract(doc)
	require.Empty(t, warnings)
	require.Len(t, layers, 2)
	assert.Equal(t, domain.Layer{Name: "Kernel", Color: "#444"}, layers[0])
	assert.Equal(t, domain.Layer{Name: "Ports"}, layers[1])
}

func TestExtract_BoldListItems(t *testing.T) {
	doc := "architecture notes\n\n" +
		"* **Ledger** holds consensus\n" +
		"* plain item without emphasis\n" +
		"* **Bus**\n"

	layers, warnings := Extract(doc)
	require.Empty(t, warnings)
	require.Len(t, layers, 2)
	assert.Equal(t, "Ledger", layers[0].Name)
	assert.Empty(t, layers[0].Color)
	assert.Equal(t, "Bus", layers[1].Name)
}

func TestExtract_NotationsUnioned(t *testing.T) {
	doc := "opic\n\n" +
		fenced("layers:\n  - {name: \"Kernel\", color: \"#444\"}\n") +
		"* **Bus**\n"

	layers, _ := Extract(doc)
	require.Len(t, layers, 2)
	assert.Equal(t, "Kernel", layers[0].Name)
	assert.Equal(t, "Bus", layers[1].Name)
}

func TestExtract_DuplicatesFirstOccurrenceWins(t *testing.T) {
	doc := "opic\n\n" +
		fenced("layers:\n  - {name: \"Kernel\", color: \"#444\"}\n  - {name: \"Kernel\", color: \"#f00\"}\n") +
		"* **Kernel**\n"

	layers, warnings := Extract(doc)
	require.Empty(t, warnings)
	require.Len(t, layers, 1)
	assert.Equal(t, domain.Layer{Name: "Kernel", Color: "#444"}, layers[0])
}

func TestExtract_MalformedBlockRecovers(t *testing.T) {
	doc := "opic\n\n" +
		fenced("layers:\n  - {name: \"Broken\"\n") + // unclosed flow mapping
		"\n" +
		fenced("layers:\n  - {name: \"Intact\", color: \"#555\"}\n") +
		"* **Listed**\n"

	layers, warnings := Extract(doc)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "malformed layers block")

	require.Len(t, layers, 2)
	assert.Equal(t, "Intact", layers[0].Name)
	assert.Equal(t, "Listed", layers[1].Name)
}

func TestExtract_NamesTrimmed(t *testing.T) {
	doc := "opic\n\n* ** Spaced Out **\n"

	layers, _ := Extract(doc)
	require.Len(t, layers, 1)
	assert.Equal(t, "Spaced Out", layers[0].Name)
}
