package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/internal/testutil"
	"github.com/erraggy/docproj/projection"
)

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", FormatText, false},
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateOutputFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentFormat(t *testing.T) {
	assert.NoError(t, ValidateDocumentFormat(FormatJSON))
	assert.NoError(t, ValidateDocumentFormat(FormatYAML))
	assert.Error(t, ValidateDocumentFormat(FormatText), "documents have no text rendering")
}

func TestOutputStructured(t *testing.T) {
	data := map[string]string{"test": "value"}

	t.Run("invalid format", func(t *testing.T) {
		err := OutputStructured(data, "invalid")
		if err == nil {
			t.Error("expected error for invalid format")
		}
	})
}

func TestMarshalDocuments(t *testing.T) {
	docs := []*document.Document{testutil.NewPersonDocument()}

	t.Run("json format", func(t *testing.T) {
		data, err := MarshalDocuments(docs, FormatJSON)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "{"))
		assert.True(t, strings.HasSuffix(string(data), "}\n"))

		decoded, err := document.DecodeAll(data)
		require.NoError(t, err)
		require.Len(t, decoded, 1)
		assert.True(t, docs[0].Equal(decoded[0]))
	})

	t.Run("yaml format", func(t *testing.T) {
		data, err := MarshalDocuments(docs, FormatYAML)
		require.NoError(t, err)
		assert.Contains(t, string(data), "name: Ann")
	})

	t.Run("several documents become a list", func(t *testing.T) {
		data, err := MarshalDocuments(testutil.NewOrderDocuments(3), FormatJSON)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(string(data), "["))
	})

	t.Run("text is rejected", func(t *testing.T) {
		_, err := MarshalDocuments(docs, FormatText)
		assert.Error(t, err)
	})
}

func TestValidateOutputPath(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "in.yaml")

	assert.NoError(t, ValidateOutputPath(filepath.Join(dir, "out.yaml"), []string{input, StdinFilePath}))
	assert.Error(t, ValidateOutputPath(input, []string{StdinFilePath, input}))
}

func TestRejectSymlinkOutput(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target.json")
	require.NoError(t, os.WriteFile(target, []byte("{}"), 0600))

	t.Run("missing file is allowed", func(t *testing.T) {
		assert.NoError(t, RejectSymlinkOutput(filepath.Join(dir, "new.json")))
	})

	t.Run("regular file is allowed", func(t *testing.T) {
		assert.NoError(t, RejectSymlinkOutput(target))
	})

	t.Run("symlink is rejected", func(t *testing.T) {
		link := filepath.Join(dir, "link.json")
		if err := os.Symlink(target, link); err != nil {
			t.Skipf("symlinks not supported: %v", err)
		}
		err := RejectSymlinkOutput(link)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "symlink")
	})
}

func TestWriteOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, WriteOutput(path, []byte("{}\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFormatInputPath(t *testing.T) {
	assert.Equal(t, "<stdin>", FormatInputPath(StdinFilePath))
	assert.Equal(t, "people.yaml", FormatInputPath("people.yaml"))
}

func TestReadInput(t *testing.T) {
	t.Run("stdin", func(t *testing.T) {
		data, err := ReadInput(StdinFilePath, strings.NewReader("a: 1\n"))
		require.NoError(t, err)
		assert.Equal(t, "a: 1\n", string(data))
	})

	t.Run("file", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "in.yaml", "b: 2\n")
		data, err := ReadInput(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "b: 2\n", string(data))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadInput(filepath.Join(t.TempDir(), "nope.yaml"), nil)
		assert.Error(t, err)
	})
}

func TestPolicyFlags(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		assert.Equal(t, projection.DefaultPolicies(), PolicyFlags{}.Policies())
	})

	t.Run("overrides", func(t *testing.T) {
		policies := PolicyFlags{ExcludeID: true, NoNestedArrays: true, IDField: "key"}.Policies()
		assert.Equal(t, projection.ExcludeID, policies.DefaultID)
		assert.Equal(t, projection.DoNotRecurseNestedArrays, policies.ArrayRecursion)
		assert.Equal(t, "key", policies.IDField)
		assert.Equal(t, projection.AllowComputedFields, policies.ComputedFields)
	})

	t.Run("normalize adds a decode option", func(t *testing.T) {
		assert.Len(t, PolicyFlags{}.DecodeOptions("x"), 1)
		assert.Len(t, PolicyFlags{Normalize: true}.DecodeOptions("x"), 2)
	})
}

func TestBuildTree(t *testing.T) {
	t.Run("inclusion", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "spec.yaml", "name: 1\naddress.city: 1\n")
		tree, err := BuildTree(path, false, PolicyFlags{})
		require.NoError(t, err)
		assert.Equal(t, projection.Inclusion, tree.Mode())
		assert.Equal(t, []string{"_id", "address.city", "name"}, tree.ProjectedPaths())
	})

	t.Run("add fields", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "spec.yaml", "total: {$cel: \"root.qty * root.price\"}\n")
		tree, err := BuildTree(path, true, PolicyFlags{})
		require.NoError(t, err)
		assert.Equal(t, projection.Exclusion, tree.Mode())
		assert.Equal(t, []string{"total"}, tree.ComputedPaths().Paths)
	})

	t.Run("invalid specification", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "spec.yaml", "name: 1\nsecret: 0\n")
		_, err := BuildTree(path, false, PolicyFlags{})
		assert.Error(t, err)
	})
}

func TestLoadVariables(t *testing.T) {
	t.Run("none", func(t *testing.T) {
		vars, err := LoadVariables("")
		require.NoError(t, err)
		assert.Nil(t, vars)
	})

	t.Run("file", func(t *testing.T) {
		path := testutil.WriteTempFile(t, "vars.yaml", "rate: 3\nlabel: x\n")
		vars, err := LoadVariables(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"label", "rate"}, vars.Names())
		rate, ok := vars.Get("rate")
		require.True(t, ok)
		assert.Equal(t, int64(3), rate.IntValue())
	})
}
