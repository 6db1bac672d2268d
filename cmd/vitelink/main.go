package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vitelink/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦┬┌┬┐┌─┐┬  ┬┌┐┌┬┌─
  ╚╗╔╝│ │ ├┤ │  ││││├┴┐
   ╚╝ ┴ ┴ └─┘┴─┘┴┘└┘┴ ┴
`

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}
	rootCmd := a.rootCmd()
	rootCmd.SetArgs(args)

	if err := rootCmd.Execute(); err != nil {
		a.printError(err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vitelink",
		Short: "Resolve Vite build assets for Go web applications",
		Long: `vitelink maps source entry points to the files Vite produced.

In production it reads the Vite manifest (.vite/manifest.json) and
returns hashed asset paths. While the Vite dev server is running it
returns dev server URLs and the live-reload snippet instead.

  • Production and dev server resolution
  • Stylesheet lookup per entry
  • Manifests on disk or in S3
  • HTTP API with Prometheus metrics`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.setup()
		},
	}

	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)
	a.bindFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		resolveCmd(a),
		stylesCmd(a),
		snippetCmd(a),
		statusCmd(a),
		manifestCmd(a),
		serveCmd(a),
		initCmd(a),
		versionCmd(a),
	)

	return rootCmd
}

// printError reports a failed command on stderr, as JSON with --json.
func (a *app) printError(err error) {
	if !a.flags.jsonOutput {
		errors.Fprint(a.stderr, err)
		return
	}
	d, ok := errors.As(err)
	if !ok {
		d = errors.Newf(errors.CategoryCLI, "%s", err.Error())
	}
	fmt.Fprintln(a.stderr, d.FormatJSON())
}

// printBanner prints the vitelink ASCII art banner.
func (a *app) printBanner() {
	fmt.Fprint(a.stdout, banner)
}

// success prints a success message.
func (a *app) success(format string, args ...any) {
	fmt.Fprintf(a.stdout, "%s %s\n", color.GreenString("✓"), fmt.Sprintf(format, args...))
}

// info prints an info message.
func (a *app) info(format string, args ...any) {
	fmt.Fprintf(a.stdout, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func (a *app) warn(format string, args ...any) {
	fmt.Fprintf(a.stdout, "%s %s\n", color.YellowString("⚠"), fmt.Sprintf(format, args...))
}
