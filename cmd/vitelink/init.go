package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/internal/config"
	"github.com/vango-dev/vitelink/internal/errors"
)

func initCmd(a *app) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a vitelink configuration file",
		Long: `Write a configuration file with default values.

The file is vitelink.json unless --format selects toml or yaml.
Global flags such as --dist and --port are written into the file.

Examples:
  vitelink init
  vitelink init --dist=public/build
  vitelink init web --format=toml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}

			var name string
			switch format {
			case "json":
				name = config.ConfigFileName
			case "toml":
				name = "vitelink.toml"
			case "yaml":
				name = "vitelink.yaml"
			default:
				return errors.New("E261").
					WithDetail("Unknown format \"" + format + "\" for 'vitelink init'").
					WithSuggestion("Use --format=json, --format=toml or --format=yaml")
			}

			if config.Exists(dir) && !force {
				return errors.Newf(errors.CategoryCLI, "%s already has a vitelink configuration", dir).
					WithSuggestion("Use --force to overwrite it")
			}

			cfg := config.New()
			if a.flags.dist != "" {
				cfg.Dist = filepath.ToSlash(a.flags.dist)
			}
			if a.flags.manifest != "" {
				cfg.Manifest = filepath.ToSlash(a.flags.manifest)
			}
			if a.flags.host != "" {
				cfg.Dev.Host = a.flags.host
			}
			if a.flags.port != 0 {
				cfg.Dev.Port = a.flags.port
			}
			if a.flags.devMode != "" {
				cfg.Dev.Mode = a.flags.devMode
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			path := filepath.Join(dir, name)
			if err := cfg.SaveTo(path); err != nil {
				return err
			}

			a.success("Created %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "File format: json, toml or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing configuration")

	return cmd
}
