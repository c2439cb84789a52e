package grove

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowHUD prints the camera state and frame counters over the scene.
	ShowHUD bool
	// Script, when set, replaces device input. Run returns once it is done.
	Script *InputScript
	// ScreenshotDir receives the frames a script captures. Defaults to
	// "screenshots".
	ScreenshotDir string
}

// Run opens a window and drives scene with a debug renderer until the window
// closes or the script completes.
func Run(scene *Scene, cfg RunConfig) error {
	if scene == nil {
		return errors.New("grove: run: nil scene")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = "screenshots"
	}

	g := &game{
		scene:    scene,
		cfg:      cfg,
		input:    NewEbitenInput(),
		clock:    NewFrameClock(scene.Config().Frame),
		graphics: NewEbitenGraphics(),
	}

	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	if fps := scene.Config().Frame.TargetFPS; fps > 0 {
		ebiten.SetTPS(int(fps))
	}

	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return errors.Wrap(err, "grove: run")
	}
	return nil
}

// game adapts a Scene to ebiten.Game.
type game struct {
	scene    *Scene
	cfg      RunConfig
	input    *EbitenInput
	clock    *FrameClock
	graphics *EbitenGraphics

	shots []string
}

func (g *game) Update() error {
	dt := g.clock.Tick(time.Now())

	var in Input
	if g.cfg.Script != nil {
		var ok bool
		var shots []string
		in, shots, ok = g.cfg.Script.Next()
		if !ok {
			return ebiten.Termination
		}
		g.shots = append(g.shots, shots...)
		dt = g.clock.Budget()
	} else {
		in = g.input.Poll()
	}

	g.scene.Update(in, dt)
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(colorBackground)
	g.graphics.Begin(screen)
	g.scene.Draw(g.graphics)
	if g.cfg.ShowHUD {
		g.graphics.DrawHUD(g.scene.Camera(), len(g.scene.Commands()))
	}

	if len(g.shots) == 0 {
		return
	}
	paths, err := captureScreenshots(screen, g.cfg.ScreenshotDir, g.shots)
	g.shots = g.shots[:0]
	log := g.scene.Logger()
	for _, p := range paths {
		log.WithField("path", p).Info("grove: screenshot saved")
	}
	if err != nil {
		log.WithError(err).Error("grove: screenshot failed")
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideHeight > 0 {
		g.scene.SetAspect(float32(outsideWidth) / float32(outsideHeight))
	}
	return outsideWidth, outsideHeight
}
