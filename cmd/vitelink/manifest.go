package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/goccy/go-yaml"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/internal/errors"
	"github.com/vango-dev/vitelink/pkg/assets"
)

// Output formats of `vitelink manifest`.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// manifestEntry is the listing shape of one asset.
type manifestEntry struct {
	Origin  string   `json:"origin" yaml:"origin"`
	File    string   `json:"file" yaml:"file"`
	URL     string   `json:"url" yaml:"url"`
	IsEntry bool     `json:"isEntry" yaml:"isEntry"`
	Imports []string `json:"imports" yaml:"imports"`
	CSS     []string `json:"css" yaml:"css"`
}

func manifestCmd(a *app) *cobra.Command {
	var (
		format  string
		entries bool
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "List the assets of the Vite manifest",
		Long: `List the assets recorded in the Vite manifest, sorted by source path.

Formats:
  table  aligned columns (default)
  json   JSON array
  yaml   YAML sequence

Examples:
  vitelink manifest
  vitelink manifest --entries
  vitelink manifest --format=yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonOutput {
				format = formatJSON
			}
			if format != formatTable && format != formatJSON && format != formatYAML {
				return errors.New("E261").
					WithDetail(fmt.Sprintf("Unknown format %q for 'vitelink manifest'", format)).
					WithSuggestion("Use --format=table, --format=json or --format=yaml")
			}

			_, resolver, err := a.setupResolver(cmd.Context())
			if err != nil {
				return err
			}

			m, err := resolver.Manifest(cmd.Context())
			if err != nil {
				return err
			}

			list := m.Assets()
			if entries {
				list = m.Entries()
			}
			rows := lo.Map(list, func(asset assets.Asset, _ int) manifestEntry {
				return manifestEntry{
					Origin:  asset.Origin,
					File:    asset.File,
					URL:     resolver.DistBaseName() + "/" + asset.File,
					IsEntry: asset.IsEntry,
					Imports: asset.Imports,
					CSS:     asset.CSS,
				}
			})

			switch format {
			case formatJSON:
				return a.printJSON(rows)
			case formatYAML:
				data, err := yaml.Marshal(rows)
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(data)
				return err
			default:
				fmt.Fprintln(a.stdout, manifestTable(rows))
				return nil
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "Output format: table, json or yaml")
	cmd.Flags().BoolVar(&entries, "entries", false, "List entry points only")

	return cmd
}

func manifestTable(rows []manifestEntry) string {
	entryStyle := lipgloss.NewStyle().Bold(true)

	return table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		Headers("SOURCE", "FILE", "ENTRY", "CSS").
		Rows(lo.Map(rows, func(row manifestEntry, _ int) []string {
			origin := row.Origin
			entry := ""
			if row.IsEntry {
				origin = entryStyle.Render(origin)
				entry = "*"
			}
			css := strconv.Itoa(len(row.CSS))
			if len(row.CSS) > 0 {
				css += " (" + strings.Join(row.CSS, ", ") + ")"
			}
			return []string{origin, row.File, entry, css}
		})...).
		String()
}
