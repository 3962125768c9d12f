package worker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBlueprintJSON = `{
	"title": "Linear Algebra Basics",
	"summary_md": "## Plan\nCovers vectors and matrices.",
	"sessions": [
		{
			"title": "Vectors",
			"steps": [
				{"title": "Read the intro", "kind": "READ", "prompt": "Read the vector chapter."},
				{"title": "Practice", "kind": "PRACTICE", "prompt": "Solve the exercises."}
			]
		},
		{
			"title": "Matrices",
			"steps": [
				{"title": "Recall", "kind": "RECALL", "prompt": "List matrix operations."}
			]
		}
	]
}`

func TestParseBlueprint(t *testing.T) {
	t.Run("plain json", func(t *testing.T) {
		bp, err := parseBlueprint(validBlueprintJSON)
		require.NoError(t, err)
		assert.Equal(t, "Linear Algebra Basics", bp.Title)
		require.Len(t, bp.Sessions, 2)
		assert.Equal(t, "Vectors", bp.Sessions[0].Title)
		require.Len(t, bp.Sessions[0].Steps, 2)
		assert.Equal(t, "READ", bp.Sessions[0].Steps[0].Kind)
	})

	t.Run("fenced json", func(t *testing.T) {
		bp, err := parseBlueprint("```json\n" + validBlueprintJSON + "\n```")
		require.NoError(t, err)
		assert.Len(t, bp.Sessions, 2)
	})

	t.Run("json wrapped in prose", func(t *testing.T) {
		raw := "Sure, here is the plan you asked for:\n" + validBlueprintJSON + "\nLet me know if you want changes."
		bp, err := parseBlueprint(raw)
		require.NoError(t, err)
		assert.Equal(t, "Linear Algebra Basics", bp.Title)
	})

	t.Run("unparseable output", func(t *testing.T) {
		_, err := parseBlueprint("I could not generate a plan.")
		assert.Error(t, err)
	})

	t.Run("empty sessions rejected", func(t *testing.T) {
		_, err := parseBlueprint(`{"title": "Empty", "summary_md": "", "sessions": []}`)
		assert.Error(t, err)
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Len(t, truncate("a longer string than allowed", 10), 10)
	assert.Equal(t, "", truncate("", 5))
}
