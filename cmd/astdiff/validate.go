package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/astdiff/pkg/treeio"
)

// errValidationFailed marks a run that completed but found an invalid
// document; main translates it into the validation exit code.
var errValidationFailed = errors.New("validation failed")

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file.json|->",
		Short: "Validate a serialized tree against the document schema",
		Long: `Validate a JSON tree document against the embedded schema.

Examples:
  astdiff validate mytree.json
  astdiff validate - < mytree.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], cmd.OutOrStdout())
		},
	}

	return cmd
}

func runValidate(inputPath string, writer io.Writer) error {
	data, inputLabel, err := readValidateInput(inputPath)
	if err != nil {
		return err
	}

	// Surface syntax errors as validation failures, not runtime errors.
	var document any
	if jsonErr := json.Unmarshal(data, &document); jsonErr != nil {
		color.New(color.FgRed).Fprintf(writer, "invalid JSON (%s): %v\n", inputLabel, jsonErr)

		return fmt.Errorf("%w: %s", errValidationFailed, inputLabel)
	}

	schemaErrs, err := treeio.Validate(data)
	if err != nil {
		return err
	}

	if len(schemaErrs) == 0 {
		color.New(color.FgGreen).Fprintf(writer, "tree is valid (%s)\n", inputLabel)

		return nil
	}

	color.New(color.FgRed).Fprintf(writer, "tree validation failed (%s)\n", inputLabel)
	fmt.Fprintf(writer, "\nErrors:\n")

	for _, schemaErr := range schemaErrs {
		color.New(color.FgRed).Fprintf(writer, "  - %s\n", schemaErr)
	}

	return fmt.Errorf("%w: %s", errValidationFailed, inputLabel)
}

func readValidateInput(inputPath string) (data []byte, inputLabel string, err error) {
	if inputPath == "-" {
		data, err = io.ReadAll(os.Stdin)
		if err != nil {
			return nil, "", fmt.Errorf("read stdin: %w", err)
		}

		return data, "stdin", nil
	}

	data, err = os.ReadFile(inputPath)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", inputPath, err)
	}

	return data, inputPath, nil
}
