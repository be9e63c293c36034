// Command fxpreview renders an effect preset headless and writes PNGs.
//
// It builds a small test scene (dark backdrop, bright dot, colored block)
// inside an EffectNode, applies the preset, advances the given number of
// frames on the CPU backend and saves the final frame. A frame script adds
// intermediate screenshots.
//
//	fxpreview -preset examples/presets/hero-glow.yaml -frames 30 -out out
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/willowfx"
)

func main() {
	presetPath := flag.String("preset", "", "YAML effect preset (default: built-in glow)")
	scriptPath := flag.String("script", "", "optional YAML frame script")
	outDir := flag.String("out", "fxpreview-out", "output directory")
	width := flag.Int("width", 256, "effect node width")
	height := flag.Int("height", 256, "effect node height")
	frames := flag.Int("frames", 1, "number of frames to render")
	fps := flag.Float64("fps", 60, "simulated frames per second")
	dump := flag.Bool("dump", false, "print the parsed preset as YAML and exit")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	willowfx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	preset, err := loadPreset(*presetPath)
	if err != nil {
		log.Fatal(err)
	}
	if *dump {
		data, err := willowfx.MarshalPreset(preset.Name, preset.Effect)
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(data)
		return
	}
	if *frames < 1 || *fps <= 0 {
		log.Fatal("frames must be >= 1 and fps > 0")
	}

	if err := run(preset, *scriptPath, *outDir, *width, *height, *frames, *fps, *verbose); err != nil {
		log.Fatal(err)
	}
}

func loadPreset(path string) (*willowfx.Preset, error) {
	if path == "" {
		return &willowfx.Preset{Name: "default-glow", Effect: willowfx.NewGlow(4, 1)}, nil
	}
	return willowfx.LoadPreset(path)
}

func run(preset *willowfx.Preset, scriptPath, outDir string, w, h, frames int, fps float64, debug bool) error {
	b := willowfx.NewSoftwareBackend(nil)
	if err := willowfx.Precompile(b); err != nil {
		return err
	}
	scene := willowfx.NewScene(b)
	scene.ClearColor = willowfx.Color{R: 0, G: 0, B: 0, A: 1}
	scene.ScreenshotDir = outDir
	scene.SetDebugMode(debug)

	var failed error
	scene.OnEffectError = func(node *willowfx.EffectNode, err error) {
		failed = err
	}

	if scriptPath != "" {
		data, err := os.ReadFile(scriptPath)
		if err != nil {
			return fmt.Errorf("read script: %w", err)
		}
		script, err := willowfx.LoadFrameScript(data)
		if err != nil {
			return err
		}
		scene.SetFrameScript(script)
	}

	fx, err := willowfx.NewEffectNode(b, "preview", w, h)
	if err != nil {
		return err
	}
	buildTestScene(fx, w, h)
	fx.SetEffect(preset.Effect)
	scene.Root().AddChild(fx.Node())

	screen, err := b.NewTexture(w, h)
	if err != nil {
		return err
	}
	defer screen.Dispose()

	dt := 1 / fps
	for i := 0; i < frames; i++ {
		scene.Update(dt)
		scene.Draw(screen)
	}
	if failed != nil {
		willowfx.Logger().Warn("preset rendered as passthrough", "err", failed)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	name := strings.NewReplacer("/", "_", " ", "_").Replace(preset.Name)
	if name == "" {
		name = "preset"
	}
	path := filepath.Join(outDir, name+".png")
	if err := willowfx.SaveTexturePNG(b, screen, path); err != nil {
		return err
	}
	st := scene.Stats()
	fmt.Printf("%s: %d frames, %d passes/frame, %d pooled textures (peak %d) -> %s\n",
		preset.Name, frames, st.Passes, fx.Stack().PooledTextures(),
		fx.Stack().MaxConcurrentTextures(), path)
	return nil
}

// buildTestScene fills the node with a dark backdrop, a bright dot in the
// center and a colored block in the lower left.
func buildTestScene(fx *willowfx.EffectNode, w, h int) {
	fw, fh := float64(w), float64(h)
	fx.AddChild(willowfx.NewRect("backdrop", fw, fh, willowfx.Color{R: 0.2, G: 0.2, B: 0.2, A: 1}))

	block := willowfx.NewRect("block", fw/4, fh/6, willowfx.Color{R: 0.25, G: 0.55, B: 1, A: 1})
	block.SetPosition(fw/8, fh*2/3)
	fx.AddChild(block)

	dot := willowfx.NewRect("dot", 4, 4, willowfx.ColorWhite)
	dot.SetPosition(float64(w/2-2), float64(h/2-2))
	fx.AddChild(dot)
}
