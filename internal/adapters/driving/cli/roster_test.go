package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterCmd_AddListRemove(t *testing.T) {
	setupTestServices(t)
	e1 := writeFile(t, "e1.txt", aliceEssay)
	_, err := execute(t, "baseline", "build", "alice", e1)
	require.NoError(t, err)

	out, err := execute(t, "roster", "add", "7B", "alice", "--name", "Alice Moreau")
	require.NoError(t, err)
	assert.Contains(t, out, "Enrolled alice in 7B")

	_, err = execute(t, "roster", "add", "7B", "bob")
	require.NoError(t, err)

	out, err = execute(t, "roster", "list", "7B")
	require.NoError(t, err)
	assert.Contains(t, out, "Class 7B (2 members):")
	assert.Contains(t, out, "Alice Moreau")
	assert.Contains(t, out, "no baseline, skipped during assignment")

	out, err = execute(t, "roster", "remove", "7B", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "Removed bob from 7B")

	out, err = execute(t, "roster", "list", "7B")
	require.NoError(t, err)
	assert.Contains(t, out, "Class 7B (1 members):")
	assert.NotContains(t, out, "bob")
}

func TestRosterCmd_ListEmpty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "roster", "list", "9C")

	require.NoError(t, err)
	assert.Contains(t, out, "Class 9C has no members.")
}

func TestRosterCmd_AddBlankAuthor(t *testing.T) {
	setupTestServices(t)

	_, err := execute(t, "roster", "add", "7B", "  ")

	require.Error(t, err)
}
