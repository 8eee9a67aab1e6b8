package cli

import (
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkdash/internal/core/domain"
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "List configured screens",
	RunE:  runScreens,
}

func init() {
	rootCmd.AddCommand(screensCmd)
}

func runScreens(cmd *cobra.Command, _ []string) error {
	_, cfg, err := loadDashboard()
	if err != nil {
		return err
	}

	bound := make(map[domain.ScreenID][]string)
	for _, label := range cfg.Buttons.Labels() {
		id := cfg.Buttons.Map[label]
		bound[id] = append(bound[id], label)
	}

	cmd.Printf("%-10s %-10s %-8s %s\n", "SCREEN", "INTERVAL", "ENABLED", "BUTTONS")
	for _, sc := range cfg.Screens {
		labels := bound[sc.ID]
		sort.Strings(labels)
		name := sc.ID.String()
		if sc.ID == cfg.DefaultScreen {
			name += "*"
		}
		enabled := "no"
		if sc.Enabled {
			enabled = "yes"
		}
		buttons := strings.Join(labels, ",")
		if buttons == "" {
			buttons = "-"
		}
		cmd.Printf("%-10s %-10s %-8s %s\n", name, sc.Interval, enabled, buttons)
	}
	cmd.Printf("\n* default screen. Buttons: %s (%s)\n", cfg.Buttons.Driver, cfg.Display.Driver)
	return nil
}
