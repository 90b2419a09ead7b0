package cli

import (
	"fmt"
	"os"
	"strings"

	"depdash/internal/config"
	"depdash/internal/format"
	"depdash/internal/store"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigPath string
	IssuesDir  string
	PrettyJSON bool
	Format     string
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "depdash",
		Short:        "Dependency dashboard issues stored as markdown files",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Serve the dashboard API on port 3000
  depdash serve

  # Inspect an issue from the terminal
  depdash issues list acme widgets
  depdash issues show acme widgets

  # Tick every checklist line mentioning lodash
  depdash issues toggle acme widgets lodash
`),
	}

	cmd.PersistentFlags().StringVar(&app.ConfigPath, "config", envOr("DEPDASH_CONFIG", ""), "Path to a TOML config file (default: ./depdash.toml if present)")
	cmd.PersistentFlags().StringVar(&app.IssuesDir, "issues-dir", "", "Issues root directory (overrides config and DEPDASH_ISSUES_DIR)")
	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("DEPDASH_FORMAT", "json"), "Output format (json|yaml)")

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newIssuesCmd(app))

	return cmd
}

// loadConfig resolves config from file and environment, then applies the
// persistent flags that were set explicitly.
func loadConfig(app *App) (config.Config, error) {
	cfg, err := config.Load(app.ConfigPath, os.Getenv)
	if err != nil {
		return config.Config{}, err
	}
	if dir := strings.TrimSpace(app.IssuesDir); dir != "" {
		cfg.IssuesDir = dir
	}
	return cfg, nil
}

func openStore(app *App) (store.Store, error) {
	cfg, err := loadConfig(app)
	if err != nil {
		return store.Store{}, err
	}
	return store.New(cfg.IssuesDir), nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
