package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/seo-optimizer/seo-analyzer/sitemap"
)

func newSitemapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sitemap <file.json>",
		Short: "Generate sitemap XML from a JSON list of URL entries",
		Long: `Reads a JSON array of entries such as
  [{"loc": "https://example.com/", "lastmod": "2024-01-01", "changefreq": "daily", "priority": 0.8}]
and prints the sitemap document. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			var urls []sitemap.URL
			if err := json.Unmarshal(data, &urls); err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			for i, u := range urls {
				if u.Loc == "" {
					return fmt.Errorf("entry %d: loc is required", i)
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), sitemap.GenerateXML(urls))
			return nil
		},
	}
}
