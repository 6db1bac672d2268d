package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// statusReport is printed by `vitelink status`.
type statusReport struct {
	DevServer    bool           `json:"devServer"`
	DevServerURL string         `json:"devServerUrl"`
	DevMode      string         `json:"devMode"`
	Dist         string         `json:"dist"`
	DistBaseName string         `json:"distBaseName"`
	Manifest     manifestStatus `json:"manifest"`
}

type manifestStatus struct {
	Loaded  bool   `json:"loaded"`
	Assets  int    `json:"assets"`
	Entries int    `json:"entries"`
	Error   string `json:"error,omitempty"`
}

func statusCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show dev server and manifest state",
		Long: `Probe the Vite dev server and load the manifest, then report both.

A manifest that cannot be loaded is reported, not treated as a failure.

Examples:
  vitelink status
  vitelink status --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, resolver, err := a.setupResolver(cmd.Context())
			if err != nil {
				return err
			}

			report := statusReport{
				DevServer:    resolver.IsDevServerActive(cmd.Context()),
				DevServerURL: resolver.DevServerURL(),
				DevMode:      cfg.Dev.Mode,
				Dist:         cfg.DistPath(),
				DistBaseName: resolver.DistBaseName(),
			}
			if m, err := resolver.Manifest(cmd.Context()); err != nil {
				report.Manifest.Error = err.Error()
			} else {
				report.Manifest = manifestStatus{
					Loaded:  true,
					Assets:  m.Len(),
					Entries: len(m.Entries()),
				}
			}

			if a.flags.jsonOutput {
				return a.printJSON(report)
			}
			a.printStatus(report)
			return nil
		},
	}

	return cmd
}

func (a *app) printStatus(r statusReport) {
	devState := color.RedString("not running")
	if r.DevServer {
		devState = color.GreenString("running")
	}
	if r.DevMode != "auto" {
		devState += " (forced " + r.DevMode + ")"
	}

	fmt.Fprintln(a.stdout)
	a.info("Dev server:  %s %s", r.DevServerURL, devState)
	a.info("Output:      %s (prefix %q)", r.Dist, r.DistBaseName)
	if r.Manifest.Loaded {
		a.info("Manifest:    %d assets, %d entries", r.Manifest.Assets, r.Manifest.Entries)
	} else {
		a.info("Manifest:    %s", color.RedString(r.Manifest.Error))
	}
	fmt.Fprintln(a.stdout)
}
