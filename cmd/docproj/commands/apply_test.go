package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/internal/testutil"
)

func TestSetupApplyFlags(t *testing.T) {
	fs, flags := SetupApplyFlags()

	t.Run("default values", func(t *testing.T) {
		assert.Equal(t, FormatJSON, flags.Format)
		assert.Equal(t, "_id", flags.IDField)
		assert.False(t, flags.AddFields)
		assert.False(t, flags.ExcludeID)
		assert.False(t, flags.NoNestedArrays)
		assert.False(t, flags.Quiet)
		assert.Zero(t, flags.Workers)
	})

	t.Run("parse flags", func(t *testing.T) {
		args := []string{"-p", "spec.yaml", "-o", "out.yaml", "-f", "yaml", "--add-fields", "--exclude-id",
			"--no-nested-arrays", "--id-field", "key", "--normalize", "--workers", "2", "--vars", "v.yaml", "-q", "in.yaml"}
		require.NoError(t, fs.Parse(args))

		assert.Equal(t, "spec.yaml", flags.Spec)
		assert.Equal(t, "out.yaml", flags.Output)
		assert.Equal(t, FormatYAML, flags.Format)
		assert.True(t, flags.AddFields)
		assert.True(t, flags.ExcludeID)
		assert.True(t, flags.NoNestedArrays)
		assert.Equal(t, "key", flags.IDField)
		assert.True(t, flags.Normalize)
		assert.Equal(t, 2, flags.Workers)
		assert.Equal(t, "v.yaml", flags.Vars)
		assert.True(t, flags.Quiet)
		assert.Equal(t, "in.yaml", fs.Arg(0))
	})
}

func TestHandleApply_NoArgs(t *testing.T) {
	err := HandleApply([]string{})
	assert.Error(t, err)
}

func TestHandleApply_Help(t *testing.T) {
	err := HandleApply([]string{"--help"})
	assert.NoError(t, err)
}

func TestHandleApply_Errors(t *testing.T) {
	input := testutil.WriteTempYAML(t, testutil.NewPersonDocument())
	spec := testutil.WriteTempFile(t, "spec.yaml", "name: 1\n")

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing spec", []string{input}, "specification is required"},
		{"both from stdin", []string{"-p", "-", "-"}, "stdin"},
		{"text format", []string{"-p", spec, "-f", "text", input}, "invalid format"},
		{"overwrite input", []string{"-p", spec, "-o", input, input}, "would overwrite"},
		{"missing documents", []string{"-p", spec, filepath.Join(t.TempDir(), "nope.yaml")}, "reading"},
		{"invalid spec", []string{"-p", testutil.WriteTempFile(t, "bad.yaml", "a: 1\nb: 0\n"), input}, "loading specification"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleApply(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHandleApply_WritesProjectedDocuments(t *testing.T) {
	input := testutil.WriteTempYAML(t, testutil.NewPersonDocument())
	spec := testutil.WriteTempFile(t, "spec.yaml", "name: 1\naddress.city: 1\n")
	output := filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, HandleApply([]string{"-q", "-p", spec, "-o", output, input}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	docs, err := document.DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	testutil.AssertDocument(t, `{_id: 1, name: Ann, address: {city: Oslo}}`, docs[0])
}

func TestHandleApply_AddFieldsWithVariables(t *testing.T) {
	input := testutil.WriteTempYAML(t, testutil.NewOrderDocuments(2)...)
	spec := testutil.WriteTempFile(t, "spec.yaml", "total: {$cel: \"double(root.qty) * root.price * vars.rate\"}\n")
	vars := testutil.WriteTempFile(t, "vars.yaml", "rate: 2.0\n")
	output := filepath.Join(t.TempDir(), "out.yaml")

	require.NoError(t, HandleApply([]string{"-q", "--add-fields", "-p", spec, "--vars", vars, "-f", "yaml", "-o", output, input}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	docs, err := document.DecodeAll(data)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	for _, d := range docs {
		assert.True(t, d.Has("price"), "add fields keeps existing fields")
		assert.True(t, d.Has("total"))
	}
}
