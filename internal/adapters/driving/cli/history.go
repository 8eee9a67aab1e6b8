package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/core/services"
)

var (
	historyLimit    int
	historySessions bool
)

var historyCmd = &cobra.Command{
	Use:   "history [screen-id]",
	Short: "Show recent renders and sessions",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", services.DefaultHistoryLimit, "Number of entries")
	historyCmd.Flags().BoolVar(&historySessions, "sessions", false, "Show sessions instead of renders")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadDashboard()
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return err
	}
	defer store.Close()
	history := services.NewHistoryService(store.HistoryStore())

	if historySessions {
		sessions, err := history.RecentSessions(cmd.Context(), historyLimit)
		if err != nil {
			return err
		}
		printSessions(cmd, sessions)
		return nil
	}

	var id domain.ScreenID
	if len(args) == 1 {
		id = domain.ScreenID(args[0])
	}
	renders, err := history.RecentRenders(cmd.Context(), id, historyLimit)
	if err != nil {
		return err
	}
	printRenders(cmd, renders)
	return nil
}

const timeLayout = "2006-01-02 15:04:05"

func printRenders(cmd *cobra.Command, renders []domain.RenderRecord) {
	if len(renders) == 0 {
		cmd.Println("No renders recorded.")
		return
	}
	cmd.Printf("%-19s  %-8s  %-8s  %-6s  %-8s  %s\n", "STARTED", "SCREEN", "TRIGGER", "RESULT", "TOOK", "ERROR")
	for _, r := range renders {
		cmd.Printf("%-19s  %-8s  %-8s  %-6s  %-8s  %s\n",
			r.StartedAt.Local().Format(timeLayout),
			r.ScreenID, r.Trigger, renderResult(r),
			r.Duration().Round(time.Millisecond), r.Error)
	}
}

func renderResult(r domain.RenderRecord) string {
	switch {
	case !r.Success:
		return "failed"
	case !r.Committed:
		return "fenced"
	default:
		return "ok"
	}
}

func printSessions(cmd *cobra.Command, sessions []domain.SessionRecord) {
	if len(sessions) == 0 {
		cmd.Println("No sessions recorded.")
		return
	}
	cmd.Printf("%-19s  %-8s  %-5s  %-19s  %-8s  %s\n", "STARTED", "SCREEN", "GEN", "ENDED", "REASON", "HANDOFF")
	for _, s := range sessions {
		ended, reason := "live", "-"
		if !s.EndedAt.IsZero() {
			ended = s.EndedAt.Local().Format(timeLayout)
			reason = string(s.EndReason)
		}
		handoff := "clean"
		if s.DegradedHandoff {
			handoff = "degraded"
		}
		cmd.Printf("%-19s  %-8s  %-5d  %-19s  %-8s  %s\n",
			s.StartedAt.Local().Format(timeLayout), s.ScreenID, s.Generation, ended, reason, handoff)
	}
}
