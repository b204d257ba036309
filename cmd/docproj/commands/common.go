// Package commands provides CLI command handlers for docproj.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/expression"
	"github.com/erraggy/docproj/internal/fileutil"
	"github.com/erraggy/docproj/projection"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// ValidateDocumentFormat validates the format of projected documents, which
// have no text rendering.
func ValidateDocumentFormat(format string) error {
	if format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured outputs data in the specified format (json or yaml) to stdout.
// Returns an error if marshaling fails.
func OutputStructured(data any, format string) error {
	bytes, err := marshalStructured(data, format)
	if err != nil {
		return err
	}
	fmt.Println(string(bytes))
	return nil
}

func marshalStructured(data any, format string) ([]byte, error) {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return nil, fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return nil, fmt.Errorf("marshaling to %s: %w", format, err)
	}
	return bytes, nil
}

// MarshalDocuments encodes projected documents in the specified format.
// One document encodes as a single object, several as a list.
func MarshalDocuments(docs []*document.Document, format string) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := document.EncodeJSON(docs...)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case FormatYAML:
		return document.EncodeYAML(docs...)
	default:
		return nil, fmt.Errorf("invalid format for documents: %s", format)
	}
}

// ValidateOutputPath checks if the output path is safe to write to
func ValidateOutputPath(outputPath string, inputPaths []string) error {
	absOutputPath, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	for _, inputPath := range inputPaths {
		if inputPath == "" || inputPath == StdinFilePath {
			continue
		}
		absInputPath, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}

		if absOutputPath == absInputPath {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}

	return nil
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
// This prevents symlink attacks where a symlink could redirect output to an unintended location.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// WriteOutput writes data to outputPath, or to stdout when the path is empty.
func WriteOutput(outputPath string, data []byte) error {
	if outputPath == "" {
		if _, err := os.Stdout.Write(data); err != nil {
			return fmt.Errorf("writing to stdout: %w", err)
		}
		return nil
	}
	cleanedOutput := filepath.Clean(outputPath)
	if err := RejectSymlinkOutput(cleanedOutput); err != nil {
		return err
	}
	if err := os.WriteFile(cleanedOutput, data, fileutil.OwnerReadWrite); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	return nil
}

// FormatInputPath returns a display-friendly path for an input.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatInputPath(path string) string {
	if path == StdinFilePath {
		return "<stdin>"
	}
	return path
}

// ReadInput reads a file, or stdin when path is StdinFilePath.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == StdinFilePath {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// PolicyFlags are the projection policy flags shared by apply and explain.
type PolicyFlags struct {
	ExcludeID      bool
	NoNestedArrays bool
	IDField        string
	Normalize      bool
}

// Policies converts the flags into projection policies.
func (p PolicyFlags) Policies() projection.Policies {
	policies := projection.DefaultPolicies()
	if p.ExcludeID {
		policies.DefaultID = projection.ExcludeID
	}
	if p.NoNestedArrays {
		policies.ArrayRecursion = projection.DoNotRecurseNestedArrays
	}
	if p.IDField != "" {
		policies.IDField = p.IDField
	}
	return policies
}

// DecodeOptions returns the decode options implied by the flags.
func (p PolicyFlags) DecodeOptions(source string) []document.DecodeOption {
	opts := []document.DecodeOption{document.WithSource(FormatInputPath(source))}
	if p.Normalize {
		opts = append(opts, document.WithNormalizedFieldNames())
	}
	return opts
}

// BuildTree loads the specification at specPath and compiles it.
func BuildTree(specPath string, addFields bool, pf PolicyFlags) (*projection.Node, error) {
	data, err := ReadInput(specPath, os.Stdin)
	if err != nil {
		return nil, err
	}
	spec, err := document.Decode(data, pf.DecodeOptions(specPath)...)
	if err != nil {
		return nil, err
	}
	build := projection.Build
	if addFields {
		build = projection.BuildAddFields
	}
	tree, err := build(spec, pf.Policies())
	if err != nil {
		return nil, err
	}
	tree.Optimize()
	return tree, nil
}

// LoadVariables reads a YAML or JSON mapping of variable bindings.
func LoadVariables(path string) (*expression.Variables, error) {
	if path == "" {
		return nil, nil
	}
	data, err := ReadInput(path, os.Stdin)
	if err != nil {
		return nil, err
	}
	doc, err := document.Decode(data, document.WithSource(FormatInputPath(path)))
	if err != nil {
		return nil, err
	}
	vars := expression.NewVariables()
	for name, v := range doc.All() {
		vars.Set(name, v)
	}
	return vars, nil
}

// Writef writes formatted output to the writer.
// If the write fails, it logs to stderr (useful for debugging).
func Writef(w io.Writer, format string, args ...any) {
	if _, err := fmt.Fprintf(w, format, args...); err != nil { //nolint:gosec // G705 - CLI tool, not a web server
		_, _ = fmt.Fprintf(os.Stderr, "write error: %v\n", err)
	}
}
