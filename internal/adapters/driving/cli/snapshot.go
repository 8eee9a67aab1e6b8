package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/pngfile"
	"github.com/custodia-labs/inkdash/internal/adapters/driven/display/raster"
	"github.com/custodia-labs/inkdash/internal/core/domain"
	"github.com/custodia-labs/inkdash/internal/screens"
)

var snapshotOut string

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <screen-id>",
	Short: "Render one screen to a PNG file",
	Long: `Render a screen once, as the panel would show it, and write it as PNG.
No session is started and the display is not touched.`,
	Args: cobra.ExactArgs(1),
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().StringVarP(&snapshotOut, "out", "o", "", "Output file (default <screen-id>.png)")
	rootCmd.AddCommand(snapshotCmd)
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	_, cfg, err := loadDashboard()
	if err != nil {
		return err
	}

	id := domain.ScreenID(args[0])
	bounds := panelBounds(cfg)
	screen, err := screens.NewRegistry().Create(id, cfg, bounds)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.RenderTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.RenderTimeout)
		defer cancel()
	}

	frame, err := screen.Render(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrRender, id, err)
	}
	if frame.IsEmpty() {
		return fmt.Errorf("%w: %s: empty frame", domain.ErrRender, id)
	}

	out := snapshotOut
	if out == "" {
		out = id.String() + ".png"
	}
	if err := pngfile.WriteFile(out, raster.Mono(frame.Image, bounds)); err != nil {
		return err
	}
	cmd.Printf("Wrote %s (%dx%d)\n", out, bounds.Dx(), bounds.Dy())
	return nil
}
