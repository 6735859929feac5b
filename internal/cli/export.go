package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"stationtree/internal/publish"
	"stationtree/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		toDir      string
		title      string
		includeIDs bool
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Render the document as Markdown (stdout, or pages with --to)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stations, _, err := store.ReadDocument(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(title) == "" {
				title = strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
			}
			if strings.TrimSpace(toDir) == "" {
				md := publish.RenderDocumentMarkdown(title, stations, publish.RenderOptions{IncludeIDs: includeIDs})
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			res, err := publish.WriteStations(stations, toDir, publish.WriteOptions{
				Title:      title,
				IncludeIDs: includeIDs,
				Overwrite:  overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Write index.md and stations/<id>.md into this directory")
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: file name)")
	cmd.Flags().BoolVar(&includeIDs, "ids", false, "Include element types and ids")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing files")
	return cmd
}
