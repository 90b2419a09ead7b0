package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"depdash/internal/config"
	"depdash/internal/logging"
	"depdash/internal/web"

	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(app *App) *cobra.Command {
	var port string
	var templatePath string
	var allowHTML bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dependency dashboard HTTP API",
		Long: strings.TrimSpace(`
Serve issues over HTTP.

Routes:
  GET  /api/{project}/{repository}/issues               list issues
  GET  /api/{project}/{repository}/issues/{id}          dashboard page, or {"description"} for Accept: application/json
  POST /api/{project}/{repository}/issues/update-issue  toggle checkboxes: {"dep": "...", "selected": true}
  POST /api/{project}/{repository}/issues               create/replace: {"title": "...", "description": "..."}
  PUT  /api/{project}/{repository}/issues/{id}          same as POST

--port accepts a TCP port or a unix socket path.
`),
		Example: strings.TrimSpace(`
# Listen on :8080 with basic auth from the environment
BASIC_AUTH_ENABLED=true BASIC_AUTH_USERNAME=ops BASIC_AUTH_PASSWORD=secret depdash serve --port 8080

# Listen on a unix socket
depdash serve --port /run/depdash.sock
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(app)
			if err != nil {
				return writeErr(cmd, err)
			}
			flags := cmd.Flags()
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("template") {
				cfg.TemplatePath = templatePath
			}
			if flags.Changed("allow-html") {
				cfg.AllowHTML = allowHTML
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.ValidateServe(); err != nil {
				return writeErr(cmd, err)
			}

			opts := logging.DefaultOptions()
			opts.Level = cfg.LogLevel
			logger := logging.New(cmd.ErrOrStderr(), opts)

			srv, err := web.NewServer(web.ServerConfig{
				IssuesDir:    cfg.IssuesDir,
				TemplatePath: cfg.TemplatePath,
				AllowHTML:    cfg.AllowHTML,
				BasicAuth:    cfg.BasicAuth,
				Logger:       logger,
			})
			if err != nil {
				return writeErr(cmd, err)
			}

			listener, err := config.NormalizePort(cfg.Port)
			if err != nil {
				return writeErr(cmd, err)
			}
			ln, err := net.Listen(listener.Network, listener.Address)
			if err != nil {
				return writeErr(cmd, listenError(listener, err))
			}

			httpSrv := &http.Server{
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() { errCh <- httpSrv.Serve(ln) }()

			logger.Info("listening", "on", listener.Describe(), "issues", cfg.IssuesDir, "basicAuth", cfg.BasicAuth.Enabled)

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return writeErr(cmd, err)
			case <-ctx.Done():
			}

			logger.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return writeErr(cmd, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", config.DefaultPort, "TCP port or unix socket path (env PORT)")
	cmd.Flags().StringVar(&templatePath, "template", "", "Dashboard page template; must contain \"{ content }\" (default: built-in)")
	cmd.Flags().BoolVar(&allowHTML, "allow-html", false, "Render raw HTML in issue bodies (sanitised)")
	cmd.Flags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug|info|warn|error)")
	return cmd
}
