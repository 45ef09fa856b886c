// Package cli wires configuration, collection, evaluation and rendering into the hostcheck command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"hostcheck/pkg/collector"
	"hostcheck/pkg/config"
	"hostcheck/pkg/health"
	"hostcheck/pkg/log"
	"hostcheck/pkg/metrics"
	"hostcheck/pkg/models"
	"hostcheck/pkg/probe"
	"hostcheck/pkg/report"
	"hostcheck/pkg/server"

	"github.com/spf13/cobra"
)

// Exit codes of the hostcheck process.
const (
	ExitHealthy   = 0
	ExitUnhealthy = 1
	ExitUsage     = 2
)

// ErrUnhealthy is returned by a run whose evaluation failed at least one check.
var ErrUnhealthy = errors.New("host is unhealthy")

// UsageError reports an invocation the command cannot act on.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

// Deps are the collaborators of a command run. Zero fields fall back to the real host.
type Deps struct {
	Version string
	Stdout  io.Writer
	Stderr  io.Writer
	// NewSource builds the fact source for a resolved configuration.
	NewSource func(cfg *config.Config) health.FactSource
	// Serve blocks serving srv on addr.
	Serve func(srv *server.HealthServer, addr string) error
}

func (d *Deps) withDefaults() *Deps {
	out := *d
	if out.Stdout == nil {
		out.Stdout = os.Stdout
	}
	if out.Stderr == nil {
		out.Stderr = os.Stderr
	}
	if out.NewSource == nil {
		out.NewSource = hostSource
	}
	if out.Serve == nil {
		out.Serve = func(srv *server.HealthServer, addr string) error {
			return srv.Start(addr)
		}
	}
	return &out
}

func hostSource(cfg *config.Config) health.FactSource {
	return collector.New(cfg.Thresholds, collector.Options{
		PingTimeout:    cfg.PingTimeout,
		CommandTimeout: cfg.CommandTimeout,
	}, probe.NewExecRunner(cfg.CommandTimeout))
}

// Execute runs the command line and returns the process exit code.
func Execute(args []string, deps Deps) int {
	d := deps.withDefaults()

	root := NewRootCommand(d)
	root.SetArgs(args)

	cmd, err := root.ExecuteC()
	return exitCode(cmd, err, d.Stderr)
}

func exitCode(cmd *cobra.Command, err error, stderr io.Writer) int {
	var usageErr *UsageError

	switch {
	case err == nil:
		return ExitHealthy
	case errors.Is(err, ErrUnhealthy):
		return ExitUnhealthy
	case errors.As(err, &usageErr), errors.Is(err, config.ErrInvalidConfig):
		fmt.Fprintf(stderr, "Error: %v\n", err)
		if cmd != nil {
			fmt.Fprint(stderr, cmd.UsageString())
		}
		return ExitUsage
	default:
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitUnhealthy
	}
}

// NewRootCommand builds the hostcheck command tree.
func NewRootCommand(d *Deps) *cobra.Command {
	root := &cobra.Command{
		Use:   "hostcheck",
		Short: "Check the health of this host",
		Long: `Collect host facts (system, resources, root disk, reachability, services,
pending upgrades and the container runtime), evaluate them against thresholds and
print a report. The exit code is 0 when the host is healthy and 1 otherwise.`,
		Version:       d.Version,
		Args:          noArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd, d)
		},
	}

	root.SetOut(d.Stdout)
	root.SetErr(d.Stderr)
	root.SetVersionTemplate("{{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Err: err}
	})

	config.RegisterFlags(root.PersistentFlags())
	root.AddCommand(newServeCommand(d))

	return root
}

func newServeCommand(d *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve health checks over HTTP",
		Long: `Expose GET /health (200 healthy, 503 unhealthy), GET /metrics and GET /version.
Every health request runs a fresh check.`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}

			checker := health.NewChecker(d.NewSource(cfg), cfg.Thresholds)
			srv := server.NewHealthServer(checker, metrics.New(), d.Version, cfg.ServeRateLimit)
			return d.Serve(srv, cfg.ServeAddr)
		},
	}
	config.RegisterServeFlags(cmd.Flags())
	return cmd
}

func noArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return &UsageError{Err: fmt.Errorf("unexpected argument %q for %q", args[0], cmd.CommandPath())}
	}
	return nil
}

// setup resolves the configuration and applies its logging settings.
func setup(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", config.ErrInvalidConfig, config.KeyLogLevel, err)
	}
	log.Configure(cmd.ErrOrStderr(), level, cfg.LogJSON)

	if !cfg.FormatKnown {
		log.Warn().
			Str("fallback", string(models.FormatPlain)).
			Msg("Unknown output format")
	}

	return cfg, nil
}

func runCheck(cmd *cobra.Command, d *Deps) error {
	cfg, err := setup(cmd)
	if err != nil {
		return err
	}

	checker := health.NewChecker(d.NewSource(cfg), cfg.Thresholds)
	facts, eval := checker.Run(cmd.Context())

	out, err := report.Render(facts, eval, checker.Thresholds().Format)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)

	if !eval.Healthy() {
		return ErrUnhealthy
	}
	return nil
}
