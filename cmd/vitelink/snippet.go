package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/internal/errors"
)

func snippetCmd(a *app) *cobra.Command {
	var require bool

	cmd := &cobra.Command{
		Use:   "snippet",
		Short: "Print the dev server injection snippet",
		Long: `Print the HTML to add to pages while the Vite dev server runs: the
React refresh preamble and the Vite client script. Nothing is printed
when the dev server is not running.

Examples:
  vitelink snippet
  vitelink snippet --require
  vitelink snippet --port=3000`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolver, err := a.setupResolver(cmd.Context())
			if err != nil {
				return err
			}

			snippet, ok := resolver.DevInjectionSnippet(cmd.Context())
			if !ok && require {
				return errors.New("E220").
					WithDetail("No Vite dev server answered at " + cfg.DevURL()).
					WithSuggestion("Start it with 'npx vite' or check --host and --port")
			}

			if a.flags.jsonOutput {
				return a.printJSON(struct {
					Active  bool   `json:"active"`
					Snippet string `json:"snippet"`
				}{ok, snippet})
			}
			if ok {
				fmt.Fprint(a.stdout, snippet)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&require, "require", false, "Fail when the dev server is not running")

	return cmd
}
