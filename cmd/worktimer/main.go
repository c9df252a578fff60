package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/worktimer/internal/credential"
	"github.com/nhle/worktimer/internal/model"
	"github.com/nhle/worktimer/internal/source/youtrack"
	"github.com/nhle/worktimer/internal/sync"
	"github.com/nhle/worktimer/internal/worktime"
)

var (
	// Global flags
	envFile string
	verbose bool
	dryRun  bool

	cfg    *model.Config
	logger *zap.Logger
)

// rootCmd runs the polling loop.
var rootCmd = &cobra.Command{
	Use:   "worktimer",
	Short: "Log work time when issues move between workflow states",
	Long: `worktimer polls the issue tracker for the assignee's current sprint and,
whenever an issue moves from the start state to the end state
(In Progress -> To Verify by default), logs the time spent between the two
state changes as a work item, rounded up to ROUNDING_BASE minutes.

Configuration is read from the environment and from the --env-file dotenv file.
Send SIGHUP to poll immediately.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = model.LoadConfig(envFile)
		if err != nil {
			return err
		}
		if dryRun {
			cfg.DryRun = true
		}

		logger, err = newLogger(cfg.LogLevel, verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runPoller,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", model.DefaultEnvFile, "Dotenv file with configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Detect transitions without posting work items")

	rootCmd.AddCommand(statesCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(whoamiCmd)
}

func runPoller(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	interval, err := cfg.PollInterval()
	if err != nil {
		return err
	}

	tracker, err := newTracker()
	if err != nil {
		return err
	}

	poller := sync.New(tracker, sync.Options{
		Interval:   interval,
		Rule:       ruleFromConfig(cfg),
		AuthorID:   cfg.UserID,
		WorkTypeID: cfg.WorktimeBackendID,
		Text:       cfg.WorkItemText,
		DryRun:     cfg.DryRun,
		Logger:     logger,
	})

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-hup:
				poller.Trigger()
			}
		}
	}()

	if err := poller.Run(ctx); err != nil {
		return err
	}

	st := poller.Status()
	logger.Info("shutting down",
		zap.Int("cycles", st.Cycles),
		zap.Int("work_items", st.Posted),
		zap.Int("dry_run", st.DryRun),
	)
	return nil
}

// newTracker builds the YouTrack adapter, resolving the token from the
// keyring when API_TOKEN is unset.
func newTracker() (*youtrack.Adapter, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("missing required config: HOST")
	}
	token, err := credential.ResolveToken(cfg.APIToken)
	if err != nil {
		return nil, err
	}
	return youtrack.NewAdapter(
		cfg.Host,
		token,
		cfg.Query(),
		cfg.CustomFieldStateID,
		youtrack.WithLogger(logger.Named("youtrack")),
	), nil
}

func ruleFromConfig(c *model.Config) worktime.Rule {
	return worktime.Rule{
		From:         c.FromState,
		To:           c.ToState,
		RoundingBase: c.RoundingBase,
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
