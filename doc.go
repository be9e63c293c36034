// Package willowfx adds post-processing effects to a retained-mode 2D scene
// graph for [Ebitengine].
//
// An [EffectNode] renders its children into an offscreen target of fixed
// size, runs a chain of effects over that target, and composites the result
// back into whatever it is drawn into: the screen, or the target of an
// enclosing EffectNode.
//
// # Quick start
//
//	b := willowfx.NewEbitenBackend(0)
//	scene := willowfx.NewScene(b)
//
//	fx, err := willowfx.NewEffectNode(b, "hero-fx", 128, 128)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fx.Node().SetPosition(100, 80)
//	fx.AddChild(willowfx.NewRect("hero", 64, 64, willowfx.Color{R: 1, G: 0.8, B: 0.2, A: 1}))
//	fx.SetEffect(willowfx.NewStack(
//		willowfx.NewGlow(4, 1.2),
//		willowfx.NewBrightnessAndContrast(0.05, 1.1),
//	))
//	scene.Root().AddChild(fx.Node())
//
//	willowfx.Run(scene, willowfx.RunConfig{Title: "fx", Width: 640, Height: 480})
//
// # Effects
//
// Built-in effects are [ColorEffect], [ColorPulse], [Glow] and
// [BrightnessAndContrast]. [Stack] composes effects in order, nested stacks
// are flattened, and [Custom] runs a user-supplied Kage program. Effects hold
// parameters only and may be shared between nodes; runtime state such as a
// pulse's clock belongs to each node's [EffectStack].
//
// Parameters can be animated with tweens (via [gween]) and effect chains can
// be loaded from YAML presets with [ParsePreset] and [LoadPreset].
//
// # Backends
//
// Rendering goes through a [Backend]. [EbitenBackend] draws on the GPU with
// Kage shaders. [SoftwareBackend] is a deterministic CPU rasterizer with the
// same semantics, used for tests and headless tools such as cmd/fxpreview.
//
// # Errors
//
// Construction errors are returned: [*InvalidDimensionsError] and
// [*AllocationError]. Errors while drawing never abort a frame; the affected
// node renders its content unmodified, and the error is reported once through
// [EffectNode.LastError], [Scene.OnEffectError] and the scene's [EventSink]
// (see willowfx/ecs for a [Donburi] adapter).
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package willowfx
