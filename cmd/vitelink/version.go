package main

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/internal/config"
	"github.com/vango-dev/vitelink/pkg/assets"
)

// versionInfo is printed by `vitelink version --json`.
type versionInfo struct {
	Version     string   `json:"version"`
	Commit      string   `json:"commit"`
	Built       string   `json:"built"`
	GoVersion   string   `json:"goVersion"`
	Platform    string   `json:"platform"`
	Manifest    string   `json:"manifest"`
	DevServer   string   `json:"devServer"`
	ConfigFiles []string `json:"configFiles"`
}

func currentVersion() versionInfo {
	return versionInfo{
		Version:     version,
		Commit:      commit,
		Built:       date,
		GoVersion:   runtime.Version(),
		Platform:    runtime.GOOS + "/" + runtime.GOARCH,
		Manifest:    path.Join(config.DefaultDist, assets.ManifestDir, assets.ManifestName),
		DevServer:   config.New().DevURL(),
		ConfigFiles: config.ConfigFileNames,
	}
}

func versionCmd(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the vitelink version and build details, along with the
manifest location, dev server and config files used when nothing is
configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := currentVersion()
			if short {
				fmt.Fprintln(a.stdout, info.Version)
				return nil
			}
			if a.flags.jsonOutput {
				return a.printJSON(info)
			}

			a.printBanner()
			fmt.Fprintln(a.stdout)
			a.info("Version:     %s (%s, built %s)", info.Version, info.Commit, info.Built)
			a.info("Go:          %s %s", info.GoVersion, info.Platform)
			a.info("Manifest:    %s", info.Manifest)
			a.info("Dev server:  %s", info.DevServer)
			a.info("Config:      %s", strings.Join(info.ConfigFiles, ", "))
			fmt.Fprintln(a.stdout)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
