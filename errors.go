package willowfx

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every error returned by this package that belongs to one
// of these classes matches it with errors.Is.
var (
	ErrInvalidDimensions = errors.New("willowfx: invalid dimensions")
	ErrAllocation        = errors.New("willowfx: allocation failed")
	ErrEffectCompilation = errors.New("willowfx: effect compilation failed")
	ErrImageBinding      = errors.New("willowfx: effect image binding failed")
)

// InvalidDimensionsError is returned when a node or texture is requested
// with a non-positive width or height.
type InvalidDimensionsError struct {
	Width, Height int
}

func (e *InvalidDimensionsError) Error() string {
	return fmt.Sprintf("willowfx: invalid dimensions %dx%d (both must be positive)", e.Width, e.Height)
}

func (e *InvalidDimensionsError) Unwrap() error { return ErrInvalidDimensions }

// AllocationError is returned when the backend cannot create a texture of
// the requested size. The size is never clamped.
type AllocationError struct {
	Width, Height int
	Err           error
}

func (e *AllocationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("willowfx: cannot allocate %dx%d texture: %v", e.Width, e.Height, e.Err)
	}
	return fmt.Sprintf("willowfx: cannot allocate %dx%d texture", e.Width, e.Height)
}

// Unwrap lets errors.Is match both ErrAllocation and the backend cause.
func (e *AllocationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrAllocation}
	}
	return []error{ErrAllocation, e.Err}
}

// EffectCompilationError is returned when a shader program used by an
// effect fails to build. Index is the position of the failing effect in the
// flattened chain.
type EffectCompilationError struct {
	Index   int
	Kind    Kind
	Program string
	Err     error
}

func (e *EffectCompilationError) Error() string {
	return fmt.Sprintf("willowfx: effect #%d (%s) program %q failed to compile: %v",
		e.Index, e.Kind, e.Program, e.Err)
}

func (e *EffectCompilationError) Unwrap() []error {
	return []error{ErrEffectCompilation, e.Err}
}

// ImageBindingError is returned when a Custom effect binds an image that is
// unset while a later one is set, or whose size differs from the effect
// input. Index is the position of the effect in the flattened chain and
// Image the position in Custom.Images. Width and Height are zero for an
// unset image.
type ImageBindingError struct {
	Index, Image          int
	Width, Height         int
	WantWidth, WantHeight int
}

func (e *ImageBindingError) Error() string {
	if e.Width == 0 && e.Height == 0 {
		return fmt.Sprintf("willowfx: effect #%d image %d is not set", e.Index, e.Image)
	}
	return fmt.Sprintf("willowfx: effect #%d image %d is %dx%d, input is %dx%d",
		e.Index, e.Image, e.Width, e.Height, e.WantWidth, e.WantHeight)
}

func (e *ImageBindingError) Unwrap() error { return ErrImageBinding }
