package willowfx

// Kind identifies a concrete effect type.
type Kind uint8

const (
	KindColor Kind = iota
	KindColorPulse
	KindGlow
	KindBrightnessAndContrast
	KindStack
	KindCustom
)

// String returns the kind name used in errors and logs.
func (k Kind) String() string {
	switch k {
	case KindColor:
		return "Color"
	case KindColorPulse:
		return "ColorPulse"
	case KindGlow:
		return "Glow"
	case KindBrightnessAndContrast:
		return "BrightnessAndContrast"
	case KindStack:
		return "Stack"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// Effect describes one visual effect applied to an EffectNode's rendered
// content. The set of implementations is closed: *ColorEffect, *ColorPulse,
// *Glow, *BrightnessAndContrast, *Stack and *Custom.
//
// An Effect holds parameters only. Runtime state (such as a ColorPulse's
// clock) belongs to the EffectStack it is attached through, so one Effect
// value may be attached to any number of nodes.
type Effect interface {
	Kind() Kind
	effect()
}

// PassCount returns the number of render passes e needs per frame. A Stack
// reports the sum over its flattened children; nil needs none.
func PassCount(e Effect) int {
	switch e := e.(type) {
	case nil:
		return 0
	case *ColorEffect, *ColorPulse, *BrightnessAndContrast, *Custom:
		return 1
	case *Glow:
		return glowPassCount
	case *Stack:
		n := 0
		for _, child := range e.effects {
			n += PassCount(child)
		}
		return n
	default:
		panic("willowfx: unknown effect type")
	}
}

// --- Stack ---

// Stack is an ordered composition of effects. The output of effect i is the
// input of effect i+1. Nested stacks are flattened depth-first, preserving
// order. A Stack is immutable once built; the parameters of the effects it
// holds are not.
type Stack struct {
	effects []Effect
}

// NewStack creates a stack from effects in application order. Nil entries
// are dropped.
func NewStack(effects ...Effect) *Stack {
	s := &Stack{effects: make([]Effect, 0, len(effects))}
	for _, e := range effects {
		if e != nil {
			s.effects = append(s.effects, e)
		}
	}
	return s
}

func (*Stack) Kind() Kind { return KindStack }
func (*Stack) effect()    {}

// Len returns the number of direct children.
func (s *Stack) Len() int { return len(s.effects) }

// Effects returns a copy of the direct children.
func (s *Stack) Effects() []Effect {
	out := make([]Effect, len(s.effects))
	copy(out, s.effects)
	return out
}

// flatten appends the leaf effects of e to dst in application order.
func flatten(e Effect, dst []Effect) []Effect {
	switch e := e.(type) {
	case nil:
		return dst
	case *Stack:
		for _, child := range e.effects {
			dst = flatten(child, dst)
		}
		return dst
	default:
		return append(dst, e)
	}
}

// Flatten returns the leaf effects of e in the order they are applied.
func Flatten(e Effect) []Effect {
	return flatten(e, nil)
}
