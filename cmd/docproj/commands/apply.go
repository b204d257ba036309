package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/erraggy/docproj"
	"github.com/erraggy/docproj/document"
	"github.com/erraggy/docproj/projection"
)

// ApplyFlags contains flags for the apply command
type ApplyFlags struct {
	PolicyFlags
	Spec      string
	Output    string
	Format    string
	AddFields bool
	Workers   int
	Vars      string
	Quiet     bool
}

// SetupApplyFlags creates and configures a FlagSet for the apply command.
// Returns the FlagSet and an ApplyFlags struct with bound flag variables.
func SetupApplyFlags() (*flag.FlagSet, *ApplyFlags) {
	fs := flag.NewFlagSet("apply", flag.ContinueOnError)
	flags := &ApplyFlags{}

	fs.StringVar(&flags.Spec, "p", "", "projection specification file (required)")
	fs.StringVar(&flags.Spec, "spec", "", "projection specification file (required)")
	fs.StringVar(&flags.Output, "o", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Output, "output", "", "output file path (default: stdout)")
	fs.StringVar(&flags.Format, "f", FormatJSON, "output format: json or yaml")
	fs.StringVar(&flags.Format, "format", FormatJSON, "output format: json or yaml")
	fs.BoolVar(&flags.AddFields, "add-fields", false, "treat the specification as computed fields added to each document")
	fs.BoolVar(&flags.ExcludeID, "exclude-id", false, "drop the identifier field unless the specification mentions it")
	fs.BoolVar(&flags.NoNestedArrays, "no-nested-arrays", false, "pass arrays nested directly in arrays through unprojected")
	fs.StringVar(&flags.IDField, "id-field", projection.DefaultIDField, "name of the identifier field")
	fs.BoolVar(&flags.Normalize, "normalize", false, "normalize field names to Unicode NFC on input")
	fs.IntVar(&flags.Workers, "workers", 0, "documents projected concurrently (default: GOMAXPROCS)")
	fs.StringVar(&flags.Vars, "vars", "", "YAML or JSON file of variables for computed fields")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output the documents, no diagnostic messages")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output the documents, no diagnostic messages")

	fs.Usage = func() {
		Writef(fs.Output(), "Usage: docproj apply [flags] <documents-file|->\n\n")
		Writef(fs.Output(), "Project every document in the input through a projection specification.\n\n")
		Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		Writef(fs.Output(), "\nExamples:\n")
		Writef(fs.Output(), "  docproj apply --spec projection.yaml people.yaml\n")
		Writef(fs.Output(), "  docproj apply -p projection.yaml -f yaml -o out.yaml people.json\n")
		Writef(fs.Output(), "  docproj apply --add-fields -p computed.yaml --vars vars.yaml orders.yaml\n")
		Writef(fs.Output(), "  cat people.json | docproj apply -q -p projection.yaml -\n")
		Writef(fs.Output(), "\nNotes:\n")
		Writef(fs.Output(), "  - Input may be one mapping, a list of mappings, or a multi-document YAML stream\n")
		Writef(fs.Output(), "  - Truthy values include a field, falsy values exclude it, anything else computes it\n")
		Writef(fs.Output(), "  - Computed fields accept \"$path\", {$literal: v} and {$cel: \"program\"}\n")
		Writef(fs.Output(), "\nExit Codes:\n")
		Writef(fs.Output(), "  0    Projection applied successfully\n")
		Writef(fs.Output(), "  1    Projection failed\n")
	}

	return fs, flags
}

// HandleApply executes the apply command
func HandleApply(args []string) error {
	fs, flags := SetupApplyFlags()

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("apply requires exactly one documents file")
	}
	inputPath := fs.Arg(0)

	if flags.Spec == "" {
		fs.Usage()
		return fmt.Errorf("specification is required (use -p or --spec)")
	}
	if flags.Spec == StdinFilePath && inputPath == StdinFilePath {
		return fmt.Errorf("only one of the specification and the documents can be read from stdin")
	}
	if err := ValidateDocumentFormat(flags.Format); err != nil {
		return err
	}
	if flags.Output != "" {
		if err := ValidateOutputPath(flags.Output, []string{inputPath, flags.Spec, flags.Vars}); err != nil {
			return err
		}
	}

	startTime := time.Now()
	tree, err := BuildTree(flags.Spec, flags.AddFields, flags.PolicyFlags)
	if err != nil {
		return fmt.Errorf("loading specification: %w", err)
	}
	vars, err := LoadVariables(flags.Vars)
	if err != nil {
		return fmt.Errorf("loading variables: %w", err)
	}

	data, err := ReadInput(inputPath, os.Stdin)
	if err != nil {
		return err
	}
	docs, err := document.DecodeAll(data, flags.DecodeOptions(inputPath)...)
	if err != nil {
		return fmt.Errorf("decoding documents: %w", err)
	}

	projected, err := tree.ApplyBatch(context.Background(), docs,
		projection.WithWorkers(flags.Workers),
		projection.WithVariables(vars),
	)
	if err != nil {
		return fmt.Errorf("applying projection: %w", err)
	}
	totalTime := time.Since(startTime)

	out, err := MarshalDocuments(projected, flags.Format)
	if err != nil {
		return err
	}

	if !flags.Quiet {
		Writef(os.Stderr, "docproj version: %s\n", docproj.Version())
		Writef(os.Stderr, "Specification: %s\n", FormatInputPath(flags.Spec))
		Writef(os.Stderr, "Documents: %s\n", FormatInputPath(inputPath))
		Writef(os.Stderr, "Mode: %s\n", tree.Mode())
		Writef(os.Stderr, "Projected: %d document(s)\n", len(projected))
		Writef(os.Stderr, "Total Time: %v\n", totalTime)
		if flags.Output != "" {
			Writef(os.Stderr, "Output: %s\n", flags.Output)
		}
	}

	return WriteOutput(flags.Output, out)
}
