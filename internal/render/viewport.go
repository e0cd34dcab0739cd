package render

import "sync"

// Viewport reports the drawing area size at the moment it is asked
type Viewport interface {
	Size() (width, height float64)
}

// FixedViewport is a constant drawing area
type FixedViewport struct {
	Width  float64
	Height float64
}

func (v FixedViewport) Size() (float64, float64) {
	return v.Width, v.Height
}

// LiveViewport tracks a drawing area that can be resized by the client
type LiveViewport struct {
	mu     sync.RWMutex
	width  float64
	height float64
}

// NewLiveViewport creates a live viewport with an initial size
func NewLiveViewport(width, height float64) *LiveViewport {
	return &LiveViewport{width: width, height: height}
}

func (v *LiveViewport) Size() (float64, float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.width, v.height
}

// Resize updates the size; non-positive dimensions are ignored
func (v *LiveViewport) Resize(width, height float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if width > 0 {
		v.width = width
	}
	if height > 0 {
		v.height = height
	}
}

// Clamp constrains a centre coordinate so a circle of radius r stays inside
// [0, dim]. When the circle cannot fit it is centred.
func Clamp(v, r, dim float64) float64 {
	if dim < 2*r {
		return dim / 2
	}
	if v < r {
		return r
	}
	if v > dim-r {
		return dim - r
	}
	return v
}
