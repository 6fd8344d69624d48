package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zhouzirui/honeypot-console/internal/service/report"
	"github.com/zhouzirui/honeypot-console/internal/service/session"
	"github.com/zhouzirui/honeypot-console/pkg/utils"
)

var errSessionFlag = errors.New("--session is required")

func newReportCmd(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the evidence report of a session as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessionID == "" {
				return errSessionFlag
			}
			notify := report.NotifyFunc(func(text string) {
				fmt.Fprintln(cmd.ErrOrStderr(), text)
			})
			exporter := report.NewExporter(a.client, notify, a.logger)
			panel, err := exporter.Export(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			if panel.HasSummary {
				fmt.Fprintf(cmd.ErrOrStderr(), "scam detected: %t, messages: %d, intelligence items: %d\n",
					panel.Summary.ScamDetected, panel.Summary.MessageCount, panel.Summary.Intelligence)
			}
			fmt.Fprintln(cmd.OutOrStdout(), panel.Pretty)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to export")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	var (
		sessionID string
		yes       bool
	)
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete the server-side state of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessionID == "" {
				return errSessionFlag
			}
			if !yes && !a.cfg.UI.SkipConfirm {
				confirm := session.ConfirmFunc(func(prompt string) bool {
					return a.ask(cmd, prompt)
				})
				if !confirm.Confirm(session.ResetPrompt) {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}
			if err := a.client.Reset(cmd.Context(), sessionID); err != nil {
				return fmt.Errorf("reset %s: %w", sessionID, err)
			}
			a.logger.Info("session reset", zap.String("session_id", sessionID))
			fmt.Fprintln(cmd.OutOrStdout(), "session cleared")
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to reset")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the stored conversation of a session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if sessionID == "" {
				return errSessionFlag
			}
			entries, err := a.client.History(cmd.Context(), sessionID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no messages stored for this session")
				return nil
			}
			for _, entry := range entries {
				fmt.Fprintf(out, "[%s] %s: %s\n",
					utils.SafeLine(entry.Timestamp), utils.SafeLine(entry.Role), utils.SafeLine(entry.Content))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&sessionID, "session", "s", "", "session id to read")
	return cmd
}

// ask prints prompt and reads a y/N answer from stdin.
func (a *app) ask(cmd *cobra.Command, prompt string) bool {
	fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(a.stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
