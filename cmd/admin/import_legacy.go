package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resumeStudio/internal/layout"
	"resumeStudio/internal/templatedoc"
)

var importLegacyCmd = &cobra.Command{
	Use:   "import-legacy <file>",
	Short: "将旧格式模板转换为当前的模板文档",
	Args:  cobra.ExactArgs(1),
	RunE:  runImportLegacy,
}

var importLegacyTemplate string

func init() {
	importLegacyCmd.Flags().StringVarP(&importLegacyTemplate, "template", "t", "modern-teal", "提供默认样式的模板")
	rootCmd.AddCommand(importLegacyCmd)
}

func runImportLegacy(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}

	base := layout.DefaultStyles(layout.ParseTemplateID(importLegacyTemplate))
	res, errs, err := templatedoc.Import(data, base)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return templatedoc.ValidationErrors(errs)
	}

	doc := templatedoc.Serialize(res.Arrangement, res.Styles, res.Metadata)
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
