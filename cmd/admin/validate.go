package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resumeStudio/internal/templatedoc"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "校验模板文档",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateStrict bool

var errInvalidDocument = errors.New("template document is invalid")

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "同时执行 JSON Schema 校验")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	raw, err := templatedoc.Parse(data)
	if err != nil {
		return err
	}

	errs := templatedoc.Validate(raw)
	if validateStrict {
		schemaErrs, err := templatedoc.SchemaErrors(data)
		if err != nil {
			return err
		}
		errs = append(errs, schemaErrs...)
	}

	out := cmd.OutOrStdout()
	if len(errs) == 0 {
		fmt.Fprintf(out, "%s: valid\n", args[0])
		return nil
	}
	for _, e := range errs {
		fmt.Fprintf(out, "%s: %s\n", e.Path, e.Message)
	}
	return fmt.Errorf("%w: %d error(s)", errInvalidDocument, len(errs))
}
