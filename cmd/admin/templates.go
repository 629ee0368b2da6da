package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"resumeStudio/internal/config"
	"resumeStudio/internal/database"
	"resumeStudio/internal/storage"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "列出已保存的模板",
	Args:  cobra.NoArgs,
	RunE:  runTemplates,
}

var exportsCmd = &cobra.Command{
	Use:   "exports <template-id>",
	Short: "列出模板的导出文件，或用 --get 输出其中一个",
	Args:  cobra.ExactArgs(1),
	RunE:  runExports,
}

var (
	templatesLimit int
	exportsGet     string
)

func init() {
	templatesCmd.Flags().IntVarP(&templatesLimit, "limit", "l", 50, "最多列出的条数")
	exportsCmd.Flags().StringVar(&exportsGet, "get", "", "输出指定对象的内容")
	rootCmd.AddCommand(templatesCmd, exportsCmd)
}

func runTemplates(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	db, err := database.InitDatabase(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}

	var list []database.Template
	if err := db.Order("updated_at desc").Limit(templatesLimit).Find(&list).Error; err != nil {
		return fmt.Errorf("list templates: %w", err)
	}
	return printTemplates(cmd.OutOrStdout(), list)
}

func printTemplates(out io.Writer, list []database.Template) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS\tEXPORT\tUPDATED")
	for _, tpl := range list {
		export := tpl.ExportObjectKey
		if export == "" {
			export = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", tpl.ID, tpl.Name, tpl.Status, export, tpl.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

func runExports(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseUint(args[0], 10, 64)
	if err != nil || id == 0 {
		return fmt.Errorf("invalid template id %q", args[0])
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	client, err := storage.NewClient(cfg.MinIO)
	if err != nil {
		return fmt.Errorf("init storage client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	prefix := storage.ExportPrefix(uint(id))
	if exportsGet != "" {
		if !strings.HasPrefix(exportsGet, prefix) {
			return fmt.Errorf("object %q does not belong to template %d", exportsGet, id)
		}
		obj, err := client.GetObject(ctx, exportsGet)
		if err != nil {
			if storage.IsNoSuchKey(err) {
				fmt.Fprintln(os.Stderr, "object not found")
			}
			return err
		}
		defer obj.Close()
		_, err = io.Copy(cmd.OutOrStdout(), obj)
		return err
	}

	objects, err := client.ListObjects(ctx, prefix, 100)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tSIZE\tMODIFIED")
	for _, o := range objects {
		fmt.Fprintf(w, "%s\t%d\t%s\n", o.Key, o.Size, o.LastModified.Format(time.RFC3339))
	}
	return w.Flush()
}
