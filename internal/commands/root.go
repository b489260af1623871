package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/investdesk/desk/internal/admin"
	"github.com/investdesk/desk/internal/apiclient"
	"github.com/investdesk/desk/internal/auditlog"
	"github.com/investdesk/desk/internal/buildinfo"
	"github.com/investdesk/desk/internal/config"
	"github.com/investdesk/desk/internal/session"
	"github.com/investdesk/desk/internal/telemetry"
	"github.com/investdesk/desk/internal/ui"
)

// skipAuth marks commands that run without a signed-in session.
const skipAuth = "desk/skip-auth"

var errNotSignedIn = errors.New("not signed in; run 'desk login' first")

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	apiURL     string
	output     string

	cfg      *config.Config
	logger   zerolog.Logger
	store    session.Store
	svc      *admin.Service
	audit    *auditlog.Log
	shutdown telemetry.Shutdown

	getenv  func(string) string
	confirm func(cmd *cobra.Command, title, label string) (bool, error)
	pick    func(cmd *cobra.Command, p *ui.Picker) (ui.Option, bool, error)
}

func newApp() *app {
	return &app{
		getenv: os.Getenv,
		confirm: func(cmd *cobra.Command, title, label string) (bool, error) {
			return ui.Confirm(title, label, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.ErrOrStderr()))
		},
		pick: func(cmd *cobra.Command, p *ui.Picker) (ui.Option, bool, error) {
			return ui.RunPicker(p, tea.WithInput(cmd.InOrStdin()), tea.WithOutput(cmd.ErrOrStderr()))
		},
	}
}

// NewRootCommand creates the top-level desk command.
func NewRootCommand() *cobra.Command {
	return newRootCommand(newApp())
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:     "desk",
		Short:   "Admin console for the investment platform",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.shutdown == nil {
				return nil
			}
			return a.shutdown(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/desk/desk.yaml)")
	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "admin API base URL (overrides config)")
	root.PersistentFlags().StringVarP(&a.output, "output", "o", "table", "output format: table or json")

	root.AddCommand(newConfigCommand(a))
	root.AddCommand(newLoginCommand(a))
	root.AddCommand(newLogoutCommand(a))
	root.AddCommand(newWhoamiCommand(a))
	root.AddCommand(newSessionCommand(a))
	root.AddCommand(newInvestorCommand(a))
	root.AddCommand(newTransactionCommand(a))
	root.AddCommand(newPayoutCommand(a))
	root.AddCommand(newPnLCommand(a))
	root.AddCommand(newAppVersionCommand(a))
	root.AddCommand(newPanCommand(a))
	root.AddCommand(newLookupCommands(a)...)
	root.AddCommand(newAuditCommand(a))

	return root
}

// setup loads config and wires the logger, tracer, session store, API client
// and audit log. Commands that talk to the API also require a session.
func (a *app) setup(cmd *cobra.Command) error {
	if a.output != "table" && a.output != "json" {
		return fmt.Errorf("unknown output format %q", a.output)
	}

	path, err := a.resolveConfigPath()
	if err != nil {
		return err
	}
	a.configPath = path
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(a.getenv)
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}
	a.cfg = cfg

	a.logger, err = telemetry.NewLogger(cmd.ErrOrStderr(), telemetry.LogOptions{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	a.shutdown, err = telemetry.SetupTracing(cmd.Context(), telemetry.TracingOptions{
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
		ServiceName: cfg.Telemetry.ServiceName,
		Insecure:    cfg.Telemetry.Insecure,
	})
	if err != nil {
		return err
	}

	a.store = session.NewFileStore(cfg.Session.Path)
	errOut := cmd.ErrOrStderr()
	client, err := apiclient.New(cfg.API.BaseURL, a.store,
		apiclient.WithTimeout(cfg.API.Timeout),
		apiclient.WithLogger(a.logger),
		apiclient.WithTracer(otel.Tracer("github.com/investdesk/desk")),
		apiclient.OnUnauthorized(func(loginPath string) {
			fmt.Fprintf(errOut, "Session expired; signed out. Sign in again with 'desk login' (%s).\n", loginPath)
		}),
	)
	if err != nil {
		return err
	}
	a.audit = auditlog.New(cfg.Audit.Dir)
	a.svc = admin.NewService(client, admin.WithRecorder(a.audit), admin.WithLogger(a.logger))

	if cmd.Annotations[skipAuth] != "" {
		return nil
	}
	s, err := a.store.Get()
	if err != nil {
		return err
	}
	if !s.SignedIn() {
		return errNotSignedIn
	}
	return nil
}

func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.FileName), nil
}

// noAuth marks cmd as usable without a session.
func noAuth(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = map[string]string{}
	}
	cmd.Annotations[skipAuth] = "true"
	return cmd
}

// title suffixes a dialog or picker title with ui.title_suffix.
func (a *app) title(t string) string {
	return ui.PageTitle(t, a.cfg.UI.TitleSuffix)
}

// ask shows a confirmation dialog under a suffixed title.
func (a *app) ask(cmd *cobra.Command, title, label string) (bool, error) {
	return a.confirm(cmd, a.title(title), label)
}

// render writes v as JSON, or calls table to print the human view.
func (a *app) render(w io.Writer, v any, table func() error) error {
	if a.output == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return table()
}
