package batch

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoBackend = errors.New("batch: backend is nil")
	// ErrNoFrame is returned by backends asked to draw outside of a frame.
	ErrNoFrame = errors.New("batch: no frame in progress")
	// ErrLayout is returned by backends that cannot serve the requested layout.
	ErrLayout = errors.New("batch: unsupported attribute layout")
)

// Backend owns the rendering-context side of the buffer: one GPU-resident
// store per channel, bound 1:1 to the CPU stores of a Buffer.
//
// All methods are called from the thread that owns the rendering context.
type Backend interface {
	// Bind registers the per-instance channels with the context. It is called
	// exactly once, before any other method.
	Bind(layout []Attribute) error
	// Resize reallocates every channel to hold capacity instances. Previous
	// GPU contents need not survive.
	Resize(capacity int) error
	// Upload writes data into channel ch starting at instance first.
	// len(data) is a multiple of ChannelWidth.
	Upload(ch Channel, first int, data []float32) error
	// DrawInstanced issues one instanced draw of count instances.
	DrawInstanced(count uint32) error
	// Release frees context-owned resources.
	Release()
}

// Logger is the subset of the application logger the buffer reports through.
type Logger interface {
	Debugf(format string, args ...any)
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debugf(format string, args ...any) {}
func (nopLogger) Warnf(format string, args ...any)  {}
func (nopLogger) Errorf(format string, args ...any) {}

// UploadMode selects when appended records reach the backend.
type UploadMode int

const (
	// UploadImmediate uploads each appended slot as it is written.
	UploadImmediate UploadMode = iota
	// UploadDeferred tracks one dirty range and uploads it at flush.
	UploadDeferred
)

func (m UploadMode) String() string {
	if m == UploadDeferred {
		return "deferred"
	}
	return "immediate"
}

// ParseUploadMode accepts "immediate" or "deferred". The empty string maps to
// UploadImmediate.
func ParseUploadMode(s string) (UploadMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "immediate":
		return UploadImmediate, nil
	case "deferred":
		return UploadDeferred, nil
	}
	return UploadImmediate, fmt.Errorf("batch: unknown upload mode %q", s)
}

// Growth returns the next capacity for a full buffer of the given capacity.
type Growth func(capacity int) int

// AdditiveGrowth grows by a fixed number of slots. Non-positive steps use
// DefaultGrowthStep.
func AdditiveGrowth(step int) Growth {
	if step <= 0 {
		step = DefaultGrowthStep
	}
	return func(capacity int) int {
		return capacity + step
	}
}

// GeometricGrowth doubles the capacity, starting at min slots.
func GeometricGrowth(min int) Growth {
	if min <= 0 {
		min = DefaultGrowthStep
	}
	return func(capacity int) int {
		if capacity < min {
			return min
		}
		return capacity * 2
	}
}

// ParseGrowth accepts "additive" or "geometric"; step is the additive
// increment or the geometric starting capacity.
func ParseGrowth(name string, step int) (Growth, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "additive":
		return AdditiveGrowth(step), nil
	case "geometric":
		return GeometricGrowth(step), nil
	}
	return nil, fmt.Errorf("batch: unknown growth policy %q", name)
}
