package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"resumeStudio/internal/layout"
	"resumeStudio/internal/pagination"
)

var paginateCmd = &cobra.Command{
	Use:   "paginate",
	Short: "根据内容高度（或在浏览器中实测页面）估算页数",
	RunE:  runPaginate,
}

var (
	paginateHeight     float64
	paginateURL        string
	paginateSelector   string
	paginateTemplate   string
	paginatePageHeight float64
	paginateTimeout    time.Duration
)

func init() {
	paginateCmd.Flags().Float64Var(&paginateHeight, "height", 0, "已测得的内容高度（px）")
	paginateCmd.Flags().StringVar(&paginateURL, "url", "", "在无头浏览器中打开并测量的页面")
	paginateCmd.Flags().StringVar(&paginateSelector, "selector", "", "测量的元素，默认 body")
	paginateCmd.Flags().StringVarP(&paginateTemplate, "template", "t", "modern-teal", "决定页高的模板")
	paginateCmd.Flags().Float64Var(&paginatePageHeight, "page-height", 0, "覆盖模板页高（px）")
	paginateCmd.Flags().DurationVar(&paginateTimeout, "timeout", 60*time.Second, "浏览器测量超时")
	paginateCmd.MarkFlagsMutuallyExclusive("height", "url")
	rootCmd.AddCommand(paginateCmd)
}

func runPaginate(cmd *cobra.Command, _ []string) error {
	pageHeight := layout.Get(paginateTemplate).PageHeightPx
	if paginatePageHeight > 0 {
		pageHeight = paginatePageHeight
	}

	var (
		pages  int
		height float64
	)
	switch {
	case paginateURL != "":
		measurer := pagination.NewBrowserMeasurer(slog.Default(), paginateTimeout)
		var err error
		pages, height, err = pagination.MeasurePages(context.Background(), measurer, paginateURL, paginateSelector, pageHeight)
		if err != nil {
			return err
		}
	case paginateHeight > 0:
		height = paginateHeight
		pages = pagination.EstimatePages(height, pageHeight)
	default:
		return errors.New("one of --height or --url is required")
	}

	fmt.Fprintf(cmd.OutOrStdout(), "height=%.1fpx page_height=%.1fpx pages=%d\n", height, pageHeight, pages)
	return nil
}
