package willowfx

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
)

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Debug enables Scene debug mode.
	Debug bool
	// Update, if set, runs every tick before the scene updates. Returning
	// ebiten.Termination ends the game loop cleanly.
	Update func(dt float64) error
}

var errRunBackend = errors.New("willowfx: Run needs a scene created with an EbitenBackend")

// Run opens a window and drives scene with an Ebitengine game loop until the
// window is closed or Update returns an error.
func Run(scene *Scene, cfg RunConfig) error {
	eb, ok := scene.Backend().(*EbitenBackend)
	if !ok {
		return errRunBackend
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return &InvalidDimensionsError{Width: cfg.Width, Height: cfg.Height}
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	scene.SetDebugMode(cfg.Debug)

	err := ebiten.RunGame(&gameShell{scene: scene, eb: eb, cfg: cfg})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameShell adapts a Scene to ebiten.Game.
type gameShell struct {
	scene *Scene
	eb    *EbitenBackend
	cfg   RunConfig

	screen    *ebiten.Image
	screenTex Texture
}

func (g *gameShell) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if g.cfg.Update != nil {
		if err := g.cfg.Update(dt); err != nil {
			return err
		}
	}
	g.scene.Update(dt)
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	if screen != g.screen {
		g.screen = screen
		g.screenTex = g.eb.Wrap(screen)
	}
	g.scene.Draw(g.screenTex)
}

func (g *gameShell) Layout(_, _ int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}
