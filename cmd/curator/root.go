package main

import (
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/lunahq/curator/internal/config"
	"github.com/lunahq/curator/internal/curation/client"
	"github.com/lunahq/curator/internal/logbook"
	"github.com/lunahq/curator/internal/review"
	"github.com/lunahq/curator/internal/tui"
)

// logSource tags every entry this tool writes to the action log.
const logSource = "CURATION"

var (
	flagPersona string
	flagServer  string
)

// deskEnv bundles everything a command needs to talk to the backend.
type deskEnv struct {
	cfg  *config.Config
	book *logbook.Logbook
	desk *review.Desk
}

func buildEnv() (*deskEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	if err := config.InitCuratorDir(cwd); err != nil {
		return nil, fmt.Errorf("initialize %s directory: %w", config.CuratorDir, err)
	}
	cfg, err := config.NewConfig(cwd)
	if err != nil {
		return nil, err
	}
	if flagPersona != "" {
		if err := cfg.SetPersona(flagPersona); err != nil {
			return nil, err
		}
	}
	if flagServer != "" {
		if err := cfg.SetServerURL(flagServer); err != nil {
			return nil, err
		}
	}
	book, err := logbook.New(cfg.LogPath(), logSource)
	if err != nil {
		return nil, fmt.Errorf("open logbook: %w", err)
	}
	api := client.New(cfg.ServerURL(), cfg.Persona(),
		client.WithTimeout(time.Duration(cfg.TimeoutSeconds())*time.Second))
	return &deskEnv{cfg: cfg, book: book, desk: review.NewDesk(api, book)}, nil
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "curator",
		Short: "Review screen for AI-scored persona training images",
		Long: `Curator is the operator console for an image curation workflow: it pulls
scored candidate images from the curation backend, renders them for review,
and forwards approve/reject/score decisions back.

Run it with no arguments for the interactive review screen, or use the
subcommands to drive the same operations from scripts.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			p := tea.NewProgram(
				tui.NewApp(env.cfg, env.desk, env.book),
				tea.WithAltScreen(),
			)
			_, err = p.Run()
			return err
		},
	}

	cmd.PersistentFlags().StringVar(&flagPersona, "persona", "", "persona scope (overrides config)")
	cmd.PersistentFlags().StringVar(&flagServer, "server", "", "curation backend base URL (overrides config)")

	cmd.AddCommand(newScoreCmd())
	cmd.AddCommand(newResetCmd())
	cmd.AddCommand(newApproveCmd())
	cmd.AddCommand(newRejectCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

func newScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Score every pending image, one at a time",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			env.desk.Refresh(cmd.Context())
			summary, err := env.desk.ScorePending(cmd.Context(), printOutcome(cmd))
			if err != nil {
				return err
			}
			cmd.Printf("batch %s: %d scored, %d failed of %d\n",
				summary.RunID, summary.Scored, summary.Failed, summary.Total)
			return nil
		},
	}
}

func newResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear all scores for the persona, then rescore from scratch",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			env.desk.Refresh(cmd.Context())
			count, summary, err := env.desk.ResetAndRescore(cmd.Context(), printOutcome(cmd))
			if err != nil {
				return err
			}
			cmd.Printf("reset %d file(s); batch %s rescored %d, %d failed\n",
				count, summary.RunID, summary.Scored, summary.Failed)
			return nil
		},
	}
}

func newApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "approve <image-path>",
		Short: "Approve one image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			if err := env.desk.Approve(cmd.Context(), args[0]); err != nil {
				return err
			}
			cmd.Printf("approved %s\n", args[0])
			return nil
		},
	}
}

func newRejectCmd() *cobra.Command {
	var del bool
	cmd := &cobra.Command{
		Use:   "reject <image-path>",
		Short: "Reject one image, optionally deleting the file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			if err := env.desk.Reject(cmd.Context(), args[0], del); err != nil {
				return err
			}
			if del {
				cmd.Printf("rejected and deleted %s\n", args[0])
			} else {
				cmd.Printf("rejected %s\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&del, "delete", false, "also delete the underlying file")
	return cmd
}

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dataset's curation counters",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := buildEnv()
			if err != nil {
				return err
			}
			env.desk.Refresh(cmd.Context())
			snap := env.desk.Snapshot()
			if snap.FetchState.LastError != "" {
				return fmt.Errorf("fetch stats: %s", snap.FetchState.LastError)
			}
			s := snap.Stats
			cmd.Printf("persona %s: total %d · pending %d · approved %d · rejected %d · review %d",
				env.cfg.Persona(), s.Total, s.Pending, s.Approved, s.Rejected, s.Review)
			if s.Target > 0 {
				cmd.Printf(" · target %d", s.Target)
			}
			cmd.Println()
			return nil
		},
	}
}

func printOutcome(cmd *cobra.Command) func(review.Outcome) {
	return func(o review.Outcome) {
		if o.Err != nil {
			cmd.PrintErrf("[%d/%d] %s: %v\n", o.Progress.Current, o.Progress.Total, o.Path, o.Err)
			return
		}
		cmd.Printf("[%d/%d] %s scored %.1f (%s)\n",
			o.Progress.Current, o.Progress.Total, o.Path, o.Score, o.Recommendation)
	}
}
