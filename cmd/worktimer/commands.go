package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nhle/worktimer/internal/credential"
	"github.com/nhle/worktimer/internal/model"
	"github.com/nhle/worktimer/internal/report"
	"github.com/nhle/worktimer/internal/source/youtrack"
	"github.com/nhle/worktimer/internal/theme"
	"github.com/nhle/worktimer/internal/worktime"
)

// statesCmd prints the current snapshot.
var statesCmd = &cobra.Command{
	Use:   "states",
	Short: "Show the current state of every watched issue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.CustomFieldStateID == "" {
			return errors.New("missing required config: CUSTOM_FIELD_STATE_ID")
		}
		tracker, err := newTracker()
		if err != nil {
			return err
		}

		snap, err := tracker.FetchStates(cmd.Context())
		if err != nil {
			return err
		}

		if snap.Len() == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), theme.HelpStyle.Render("No issues match "+cfg.Query()))
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), report.StatesTable(snap, ruleFromConfig(cfg)))
		return nil
	},
}

// logCmd posts a single work item by hand.
var logCmd = &cobra.Command{
	Use:   "log <issue> <minutes>",
	Short: "Log work time against an issue",
	Long: `Logs the given number of minutes against an issue, rounded up to
ROUNDING_BASE exactly like automatically detected transitions.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		minutes, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("minutes must be an integer: %w", err)
		}
		if cfg.UserID == "" {
			return errors.New("missing required config: USER_ID")
		}

		rounded := worktime.RoundUpDuration(minutes, cfg.RoundingBase)
		if rounded <= 0 {
			return fmt.Errorf("duration %d rounds to %d minutes, nothing to log", minutes, rounded)
		}

		if cfg.DryRun {
			logger.Info("dry run: would add work time",
				zap.String("issue", args[0]),
				zap.Int("minutes", rounded),
			)
			return nil
		}

		tracker, err := newTracker()
		if err != nil {
			return err
		}
		err = tracker.AddWorkItem(cmd.Context(), model.WorkItem{
			IssueID:  args[0],
			Date:     time.Now(),
			AuthorID: cfg.UserID,
			Minutes:  rounded,
			TypeID:   cfg.WorktimeBackendID,
			Text:     cfg.WorkItemText,
		})
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(),
			theme.SuccessStyle.Render(fmt.Sprintf("Logged %dm on %s", rounded, args[0])))
		return nil
	},
}

// loginCmd stores the API token in the system keyring.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the tracker API token in the system keyring",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		host := cfg.Host
		var token string

		fields := []huh.Field{}
		if host == "" {
			fields = append(fields, huh.NewInput().
				Title("Host").
				Description("Tracker URL (e.g., https://example.youtrack.cloud)").
				Value(&host).
				Validate(validateURL))
		}
		fields = append(fields, huh.NewInput().
			Title("Permanent token").
			Description("Profile > Account Security > Tokens").
			EchoMode(huh.EchoModePassword).
			Value(&token).
			Validate(validateRequired("Token")))

		if err := huh.NewForm(huh.NewGroup(fields...)).Run(); err != nil {
			return err
		}
		host = strings.TrimRight(strings.TrimSpace(host), "/")
		token = strings.TrimSpace(token)

		adapter := youtrack.NewAdapter(host, token, "", "")
		me, err := adapter.ValidateConnection(cmd.Context())
		if err != nil {
			return err
		}

		if err := credential.Set(credential.TokenKey, token); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(),
			theme.SuccessStyle.Render(fmt.Sprintf("Token stored for %s (%s)", me.Name, me.Login)))
		if cfg.Host == "" {
			fmt.Fprintln(cmd.OutOrStdout(), theme.HelpStyle.Render("Set HOST="+host+" in "+envFile))
		}
		return nil
	},
}

// whoamiCmd checks that the configured token works.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the user the configured token belongs to",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, err := newTracker()
		if err != nil {
			return err
		}
		me, err := tracker.ValidateConnection(cmd.Context())
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) id=%s\n", me.Name, me.Login, me.ID)
		if cfg.UserID != "" && cfg.UserID != me.ID {
			fmt.Fprintln(cmd.OutOrStdout(),
				theme.ErrorStyle.Render("USER_ID "+cfg.UserID+" differs from the token owner"))
		}
		return nil
	},
}

func validateRequired(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateURL(s string) error {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return errors.New("URL must start with http:// or https://")
	}
	return nil
}
