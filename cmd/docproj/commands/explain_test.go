package commands

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/docproj/internal/testutil"
)

func TestSetupExplainFlags(t *testing.T) {
	fs, flags := SetupExplainFlags()

	assert.Equal(t, FormatText, flags.Format)
	assert.False(t, flags.Verbose)

	require.NoError(t, fs.Parse([]string{"--spec", "spec.yaml", "-f", "json", "-v", "--exclude-id"}))
	assert.Equal(t, "spec.yaml", flags.Spec)
	assert.Equal(t, FormatJSON, flags.Format)
	assert.True(t, flags.Verbose)
	assert.True(t, flags.ExcludeID)
}

func TestHandleExplain(t *testing.T) {
	spec := testutil.WriteTempFile(t, "spec.yaml", "name: 1\nalias: $name\n")

	t.Run("help", func(t *testing.T) {
		assert.NoError(t, HandleExplain([]string{"-h"}))
	})

	t.Run("missing spec", func(t *testing.T) {
		assert.Error(t, HandleExplain([]string{}))
	})

	t.Run("invalid format", func(t *testing.T) {
		assert.Error(t, HandleExplain([]string{"-p", spec, "-f", "xml"}))
	})

	t.Run("text", func(t *testing.T) {
		assert.NoError(t, HandleExplain([]string{"-p", spec}))
	})

	t.Run("yaml", func(t *testing.T) {
		assert.NoError(t, HandleExplain([]string{"-p", spec, "-f", "yaml"}))
	})
}

func TestExplain(t *testing.T) {
	path := testutil.WriteTempFile(t, "spec.yaml", "name: 1\nalias: $name\nscore: {$cel: \"root.age + 1\"}\n")
	tree, err := BuildTree(path, false, PolicyFlags{})
	require.NoError(t, err)

	result := Explain(tree, false)
	assert.Equal(t, "inclusion", result.Mode)
	assert.Equal(t, []string{"_id", "name"}, result.ProjectedPaths)
	assert.Equal(t, []string{"score"}, result.ComputedPaths)
	assert.Equal(t, map[string]string{"alias": "name"}, result.Renames)
	assert.True(t, result.NeedsWholeDocument)

	t.Run("json keeps the specification ordered", func(t *testing.T) {
		data, err := json.Marshal(result)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"specification":{"_id":true,"name":true,"alias":"$name","score":{"$cel":"root.age + 1"}}`)
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := yaml.Marshal(result)
		require.NoError(t, err)
		assert.Contains(t, string(data), "mode: inclusion")
		assert.Contains(t, string(data), "alias: $name")
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeExplainText(&buf, result))
		out := buf.String()
		assert.Contains(t, out, "Mode: inclusion\n")
		assert.Contains(t, out, "Projected Paths: _id, name\n")
		assert.Contains(t, out, "  alias <- name\n")
		assert.Contains(t, out, "Needs Whole Document: true\n")
	})

	t.Run("no renames", func(t *testing.T) {
		plain := testutil.WriteTempFile(t, "plain.yaml", "name: 1\n")
		tree, err := BuildTree(plain, false, PolicyFlags{ExcludeID: true})
		require.NoError(t, err)
		result := Explain(tree, false)
		assert.Nil(t, result.Renames)
		assert.Empty(t, result.ComputedPaths)
		assert.False(t, result.NeedsWholeDocument)

		var buf bytes.Buffer
		require.NoError(t, writeExplainText(&buf, result))
		assert.Contains(t, buf.String(), "Computed Paths: (none)\n")
	})
}
