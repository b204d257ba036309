package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/projection"
)

// ExplainFlags contains flags for the explain command
type ExplainFlags struct {
	PolicyFlags
	Spec      string
	Format    string
	AddFields bool
	Verbose   bool
}

// ExplainResult is the structured output of the explain command.
type ExplainResult struct {
	Mode               string             `json:"mode" yaml:"mode"`
	Specification      *document.Document `json:"specification" yaml:"specification"`
	ProjectedPaths     []string           `json:"projectedPaths" yaml:"projectedPaths"`
	ComputedPaths      []string           `json:"computedPaths" yaml:"computedPaths"`
	Renames            map[string]string  `json:"renames,omitempty" yaml:"renames,omitempty"`
	NeedsWholeDocument bool               `json:"needsWholeDocument" yaml:"needsWholeDocument"`
}

// SetupExplainFlags creates and configures a FlagSet for the explain command.
// Returns the FlagSet and an ExplainFlags struct with bound flag variables.
func SetupExplainFlags() (*flag.FlagSet, *ExplainFlags) {
	fs := flag.NewFlagSet("explain", flag.ContinueOnError)
	flags := &ExplainFlags{}

	fs.StringVar(&flags.Spec, "p", "", "projection specification file, or - for stdin (required)")
	fs.StringVar(&flags.Spec, "spec", "", "projection specification file, or - for stdin (required)")
	fs.StringVar(&flags.Format, "f", FormatText, "output format: text, json, or yaml")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")
	fs.BoolVar(&flags.AddFields, "add-fields", false, "treat the specification as computed fields added to each document")
	fs.BoolVar(&flags.ExcludeID, "exclude-id", false, "drop the identifier field unless the specification mentions it")
	fs.BoolVar(&flags.NoNestedArrays, "no-nested-arrays", false, "pass arrays nested directly in arrays through unprojected")
	fs.StringVar(&flags.IDField, "id-field", projection.DefaultIDField, "name of the identifier field")
	fs.BoolVar(&flags.Verbose, "verbose", false, "serialize computed fields with diagnostic detail")
	fs.BoolVar(&flags.Verbose, "v", false, "serialize computed fields with diagnostic detail")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docproj explain [flags]\n\n")
		Writef(fs.Output(), "Compile a projection specification and report what it reads and writes.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docproj explain --spec projection.yaml\n")
		Writef(fs.Output(), "  docproj explain -p projection.yaml -f json\n")
		Writef(fs.Output(), "  cat projection.yaml | docproj explain -v -p -\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Specification compiled\n")
		Writef(fs.Output(), "  1    Specification is invalid\n")
	}

	return fs, flags
}

// HandleExplain executes the explain command
func HandleExplain(args []string) error {
	fs, flags := SetupExplainFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if flags.Spec == "" {
		fs.Usage()
		return fmt.Errorf("specification is required (use -p or --spec)")
	}
	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	tree, err := BuildTree(flags.Spec, flags.AddFields, flags.PolicyFlags)
	if err != nil {
		return fmt.Errorf("loading specification: %w", err)
	}
	result := Explain(tree, flags.Verbose)

	if flags.Format == FormatText {
		return writeExplainText(os.Stdout, result)
	}
	return OutputStructured(result, flags.Format)
}

// Explain summarizes a compiled tree.
func Explain(tree *projection.Node, verbose bool) ExplainResult {
	verbosity := projection.NoExplain
	if verbose {
		verbosity = projection.ExplainPlanner
	}
	deps := tree.Dependencies()
	result := ExplainResult{
		Mode:               deps.Mode.String(),
		Specification:      tree.Serialize(verbosity),
		ProjectedPaths:     deps.Projected,
		ComputedPaths:      deps.Computed,
		NeedsWholeDocument: deps.NeedsWholeDocument,
	}
	if len(deps.Renames) > 0 {
		result.Renames = deps.Renames
	}
	return result
}

func writeExplainText(w io.Writer, result ExplainResult) error {
	spec, err := result.Specification.MarshalJSON()
	if err != nil {
		return err
	}
	Writef(w, "Mode: %s\n", result.Mode)
	Writef(w, "Specification: %s\n", spec)
	Writef(w, "Projected Paths: %s\n", joinOrNone(result.ProjectedPaths))
	Writef(w, "Computed Paths: %s\n", joinOrNone(result.ComputedPaths))
	if len(result.Renames) > 0 {
		Writef(w, "Renames:\n")
		for _, to := range slices.Sorted(maps.Keys(result.Renames)) {
			Writef(w, "  %s <- %s\n", to, result.Renames[to])
		}
	}
	Writef(w, "Needs Whole Document: %t\n", result.NeedsWholeDocument)
	return nil
}

func joinOrNone(paths []string) string {
	if len(paths) == 0 {
		return "(none)"
	}
	return strings.Join(paths, ", ")
}
