package commands

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/rectsweep/pkg/render"
	"github.com/Sumatoshi-tech/rectsweep/pkg/scene"
	"github.com/Sumatoshi-tech/rectsweep/pkg/sweep"
)

type screenFactory func() (tcell.Screen, error)

// PreviewCommand paints a decomposition in the terminal.
type PreviewCommand struct {
	newScreen screenFactory
}

func newPreviewCommand() *cobra.Command {
	return newPreviewCommandWithScreen(tcell.NewScreen)
}

func newPreviewCommandWithScreen(newScreen screenFactory) *cobra.Command {
	pc := &PreviewCommand{newScreen: newScreen}

	return &cobra.Command{
		Use:   "preview <scene|->",
		Short: "Show a decomposition in the terminal",
		Long:  "Paint the scene and its decomposition full screen. Press any key to exit.",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.run,
	}
}

func (pc *PreviewCommand) run(cmd *cobra.Command, args []string) error {
	rt, err := runtimeFrom(cmd)
	if err != nil {
		return err
	}

	sc, err := loadScene(cmd, args[0])
	if err != nil {
		return err
	}

	if sc.Base == nil {
		return scene.ErrNoBase
	}

	res := sweep.Analyze(*sc.Base, sc.ObstructionRects())

	screen, err := pc.newScreen()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}

	err = screen.Init()
	if err != nil {
		return fmt.Errorf("init screen: %w", err)
	}

	defer screen.Fini()

	rt.logger.DebugContext(cmd.Context(), "preview opened", "rects", len(res.Rects))

	draw := func() {
		screen.Clear()
		render.Paint(screen, *sc.Base, sc.Obstructions, res.Rects)
		screen.Show()
	}

	draw()

	for {
		switch screen.PollEvent().(type) {
		case nil, *tcell.EventKey:
			return nil
		case *tcell.EventResize:
			screen.Sync()
			draw()
		}
	}
}
