package willowfx

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v2"
)

// ErrPreset is matched by every preset parsing error.
var ErrPreset = errors.New("willowfx: invalid preset")

// Preset is a named effect chain loaded from YAML.
type Preset struct {
	Name   string
	Effect Effect
}

type presetFile struct {
	Name    string         `yaml:"name"`
	Effects []presetEffect `yaml:"effects"`
}

type presetEffect struct {
	Type string `yaml:"type"`

	// glow
	Radius    *float64 `yaml:"radius,omitempty"`
	Intensity *float64 `yaml:"intensity,omitempty"`
	Threshold *float64 `yaml:"threshold,omitempty"`

	// brightness_contrast
	Brightness *float64 `yaml:"brightness,omitempty"`
	Contrast   *float64 `yaml:"contrast,omitempty"`

	// color
	Color string   `yaml:"color,omitempty"`
	Alpha *float64 `yaml:"alpha,omitempty"`

	// color_pulse
	From      string   `yaml:"from,omitempty"`
	To        string   `yaml:"to,omitempty"`
	FromAlpha *float64 `yaml:"from_alpha,omitempty"`
	ToAlpha   *float64 `yaml:"to_alpha,omitempty"`
	Period    float64  `yaml:"period,omitempty"`
	Easing    string   `yaml:"easing,omitempty"`
	Space     string   `yaml:"space,omitempty"`

	// stack
	Effects []presetEffect `yaml:"effects,omitempty"`
}

// easings maps preset easing names to gween functions. Names are matched
// case-insensitively.
var easings = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"inquad":       ease.InQuad,
	"outquad":      ease.OutQuad,
	"inoutquad":    ease.InOutQuad,
	"incubic":      ease.InCubic,
	"outcubic":     ease.OutCubic,
	"inoutcubic":   ease.InOutCubic,
	"inquart":      ease.InQuart,
	"outquart":     ease.OutQuart,
	"inoutquart":   ease.InOutQuart,
	"insine":       ease.InSine,
	"outsine":      ease.OutSine,
	"inoutsine":    ease.InOutSine,
	"inexpo":       ease.InExpo,
	"outexpo":      ease.OutExpo,
	"inoutexpo":    ease.InOutExpo,
	"incirc":       ease.InCirc,
	"outcirc":      ease.OutCirc,
	"inoutcirc":    ease.InOutCirc,
	"inback":       ease.InBack,
	"outback":      ease.OutBack,
	"inoutback":    ease.InOutBack,
	"inbounce":     ease.InBounce,
	"outbounce":    ease.OutBounce,
	"inoutbounce":  ease.InOutBounce,
	"inelastic":    ease.InElastic,
	"outelastic":   ease.OutElastic,
	"inoutelastic": ease.InOutElastic,
}

// EasingNames returns the easing names presets accept, sorted.
func EasingNames() []string {
	names := make([]string, 0, len(easings))
	for name := range easings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupEasing(name string) (ease.TweenFunc, bool) {
	if name == "" {
		return nil, true
	}
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(name))
	fn, ok := easings[key]
	return fn, ok
}

// ParsePreset parses a YAML effect preset. A single effect is returned as
// is; several are wrapped in a Stack.
func ParsePreset(data []byte) (*Preset, error) {
	var f presetFile
	if err := yaml.UnmarshalStrict(data, &f); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPreset, err)
	}
	if len(f.Effects) == 0 {
		return nil, fmt.Errorf("%w %q: no effects", ErrPreset, f.Name)
	}
	effects := make([]Effect, 0, len(f.Effects))
	for i := range f.Effects {
		e, err := f.Effects[i].build(fmt.Sprintf("effects[%d]", i))
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrPreset, f.Name, err)
		}
		effects = append(effects, e)
	}
	p := &Preset{Name: f.Name}
	if len(effects) == 1 {
		p.Effect = effects[0]
	} else {
		p.Effect = NewStack(effects...)
	}
	return p, nil
}

// LoadPreset reads and parses a preset file.
func LoadPreset(path string) (*Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load preset: %w", err)
	}
	p, err := ParsePreset(data)
	if err != nil {
		return nil, fmt.Errorf("load preset %s: %w", path, err)
	}
	return p, nil
}

func (pe *presetEffect) build(at string) (Effect, error) {
	switch strings.ToLower(pe.Type) {
	case "glow":
		g := NewGlow(4, 1)
		setIf(&g.Radius, pe.Radius)
		setIf(&g.Intensity, pe.Intensity)
		setIf(&g.Threshold, pe.Threshold)
		if g.Radius < 0 || g.Radius > maxGlowRadius {
			return nil, fmt.Errorf("%s: glow radius %v outside [0, %d]", at, g.Radius, maxGlowRadius)
		}
		return g, nil

	case "brightness_contrast":
		bc := NewBrightnessAndContrast(0, 1)
		setIf(&bc.Brightness, pe.Brightness)
		setIf(&bc.Contrast, pe.Contrast)
		return bc, nil

	case "color":
		c, err := parsePresetColor(pe.Color, pe.Alpha, ColorWhite)
		if err != nil {
			return nil, fmt.Errorf("%s: color: %w", at, err)
		}
		return NewColor(c), nil

	case "color_pulse":
		from, err := parsePresetColor(pe.From, pe.FromAlpha, ColorWhite)
		if err != nil {
			return nil, fmt.Errorf("%s: from: %w", at, err)
		}
		to, err := parsePresetColor(pe.To, pe.ToAlpha, ColorWhite)
		if err != nil {
			return nil, fmt.Errorf("%s: to: %w", at, err)
		}
		fn, ok := lookupEasing(pe.Easing)
		if !ok {
			return nil, fmt.Errorf("%s: unknown easing %q", at, pe.Easing)
		}
		p := NewColorPulse(from, to, pe.Period)
		p.Easing = fn
		switch strings.ToLower(pe.Space) {
		case "", "rgb":
		case "lab":
			p.Space = PulseLab
		default:
			return nil, fmt.Errorf("%s: unknown color space %q", at, pe.Space)
		}
		return p, nil

	case "stack":
		children := make([]Effect, 0, len(pe.Effects))
		for i := range pe.Effects {
			e, err := pe.Effects[i].build(fmt.Sprintf("%s.effects[%d]", at, i))
			if err != nil {
				return nil, err
			}
			children = append(children, e)
		}
		return NewStack(children...), nil

	case "":
		return nil, fmt.Errorf("%s: missing type", at)
	default:
		return nil, fmt.Errorf("%s: unknown type %q", at, pe.Type)
	}
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

// parsePresetColor parses a hex color ("#rgb" or "#rrggbb") with an
// optional alpha. An empty string yields def.
func parsePresetColor(hex string, alpha *float64, def Color) (Color, error) {
	c := def
	if hex != "" {
		if !strings.HasPrefix(hex, "#") {
			hex = "#" + hex
		}
		cc, err := colorful.Hex(hex)
		if err != nil {
			return Color{}, err
		}
		c = Color{cc.R, cc.G, cc.B, 1}
	}
	if alpha != nil {
		if *alpha < 0 || *alpha > 1 {
			return Color{}, fmt.Errorf("alpha %v outside [0, 1]", *alpha)
		}
		c.A = *alpha
	}
	return c, nil
}

// MarshalPreset encodes an effect chain as preset YAML. Custom effects have
// no preset form and are rejected. ColorPulse easing is a function value and
// is not encoded, so it reads back as the default.
func MarshalPreset(name string, e Effect) ([]byte, error) {
	f := presetFile{Name: name}
	if s, ok := e.(*Stack); ok {
		for _, child := range s.effects {
			pe, err := toPresetEffect(child)
			if err != nil {
				return nil, err
			}
			f.Effects = append(f.Effects, pe)
		}
	} else {
		pe, err := toPresetEffect(e)
		if err != nil {
			return nil, err
		}
		f.Effects = []presetEffect{pe}
	}
	return yaml.Marshal(&f)
}

func toPresetEffect(e Effect) (presetEffect, error) {
	switch e := e.(type) {
	case *Glow:
		return presetEffect{Type: "glow", Radius: &e.Radius, Intensity: &e.Intensity, Threshold: &e.Threshold}, nil
	case *BrightnessAndContrast:
		return presetEffect{Type: "brightness_contrast", Brightness: &e.Brightness, Contrast: &e.Contrast}, nil
	case *ColorEffect:
		a := e.Color.A
		return presetEffect{Type: "color", Color: hexColor(e.Color), Alpha: &a}, nil
	case *ColorPulse:
		fa, ta := e.From.A, e.To.A
		return presetEffect{
			Type:      "color_pulse",
			From:      hexColor(e.From),
			To:        hexColor(e.To),
			FromAlpha: &fa,
			ToAlpha:   &ta,
			Period:    e.Period,
			Space:     e.Space.String(),
		}, nil
	case *Stack:
		pe := presetEffect{Type: "stack"}
		for _, child := range e.effects {
			c, err := toPresetEffect(child)
			if err != nil {
				return presetEffect{}, err
			}
			pe.Effects = append(pe.Effects, c)
		}
		return pe, nil
	case nil:
		return presetEffect{}, fmt.Errorf("%w: nil effect", ErrPreset)
	default:
		return presetEffect{}, fmt.Errorf("%w: %s effects have no preset form", ErrPreset, e.Kind())
	}
}

func hexColor(c Color) string {
	return colorful.Color{R: clamp01(c.R), G: clamp01(c.G), B: clamp01(c.B)}.Hex()
}
