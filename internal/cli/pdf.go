package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/resumate/resumate/internal/pdf"
)

func newPDFCmd() *cobra.Command {
	var (
		in, output, chrome string
		timeout            time.Duration
	)
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render an HTML file to an A4 PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			html, err := os.ReadFile(in)
			if err != nil {
				return fmt.Errorf("failed to read HTML file: %w", err)
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return renderFile(ctx, pdf.NewChromeRenderer(chrome, timeout, 1), string(html), output)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "Path to HTML file (required)")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Path to output PDF (required)")
	cmd.Flags().StringVar(&chrome, "chrome", os.Getenv("CHROME_PATH"), "Chrome executable (default: found on PATH)")
	cmd.Flags().DurationVar(&timeout, "timeout", 60*time.Second, "Render timeout")
	for _, f := range []string{"in", "out"} {
		if err := cmd.MarkFlagRequired(f); err != nil {
			panic(fmt.Sprintf("failed to mark %s flag as required: %v", f, err))
		}
	}
	return cmd
}

func renderFile(ctx context.Context, r pdf.Renderer, html, path string) error {
	b, err := r.Render(ctx, html)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}
