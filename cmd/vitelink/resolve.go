package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// resolvedAsset is one line of `vitelink resolve --json`.
type resolvedAsset struct {
	File string `json:"file"`
	URL  string `json:"url"`
}

func resolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <file>...",
		Short: "Print the URL of source files",
		Long: `Print the URL a page should load for each source file.

While the Vite dev server is running this is the dev server URL of the
source file. Otherwise it is the hashed file from the manifest, prefixed
with the output directory name.

Examples:
  vitelink resolve main.js
  vitelink resolve main.js admin.js --json
  vitelink resolve main.js --dev=off --dist=public/build`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := a.setupResolver(cmd.Context())
			if err != nil {
				return err
			}

			results := make([]resolvedAsset, 0, len(args))
			for _, file := range args {
				url, err := resolver.Resolve(cmd.Context(), file)
				if err != nil {
					return err
				}
				results = append(results, resolvedAsset{File: file, URL: url})
			}

			if a.flags.jsonOutput {
				return a.printJSON(results)
			}
			for _, r := range results {
				fmt.Fprintln(a.stdout, r.URL)
			}
			return nil
		},
	}

	return cmd
}

func stylesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "styles <file>",
		Short: "Print the stylesheets of a source file",
		Long: `Print the stylesheet bundles Vite emitted for a source file, one per
line, in manifest order. Nothing is printed for unknown files or files
without stylesheets.

Examples:
  vitelink styles main.js
  vitelink styles main.js --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, resolver, err := a.setupResolver(cmd.Context())
			if err != nil {
				return err
			}

			styles, err := resolver.StyleURLs(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if a.flags.jsonOutput {
				return a.printJSON(styles)
			}
			for _, s := range styles {
				fmt.Fprintln(a.stdout, s)
			}
			return nil
		},
	}

	return cmd
}
