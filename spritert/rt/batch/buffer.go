// Package batch accumulates per-instance primitive data for one frame and
// submits it in a single instanced draw call.
//
// A Buffer keeps three parallel stores (destination, source/color,
// shape/transform) of equal length and capacity. The caller drives it once per
// frame: Append for every primitive, then FlushAndReset exactly once. Calling
// FlushAndReset twice in a frame, or appending after it, produces wrong
// output; with Options.Debug set and BeginFrame called each frame the buffer
// panics instead.
package batch

import (
	"fmt"
)

type Options struct {
	// Growth picks the next capacity when the buffer is full.
	// Defaults to AdditiveGrowth(DefaultGrowthStep).
	Growth Growth
	Upload UploadMode
	// MaxInstances truncates a frame beyond this many instances. Zero disables it.
	MaxInstances int
	// Debug enables frame ordering assertions.
	Debug  bool
	Logger Logger
}

type Stats struct {
	Frames    uint64
	Skipped   uint64
	Truncated uint64
	Peak      int
}

type Buffer struct {
	backend Backend
	growth  Growth
	opts    Options
	log     Logger

	capacity int
	count    int
	stores   [ChannelCount][]float32

	// pending upload range in instances, [dirtyFrom, dirtyTo)
	dirtyFrom int
	dirtyTo   int

	faulted   bool
	truncated bool

	frame        uint64
	frameStarted bool
	flushed      bool

	stats Stats
}

// New binds the fixed attribute layout to backend and returns an empty
// buffer. An error is a setup fault; there is no degraded mode.
func New(backend Backend, opts Options) (*Buffer, error) {
	if backend == nil {
		return nil, ErrNoBackend
	}
	b := &Buffer{
		backend: backend,
		growth:  opts.Growth,
		opts:    opts,
		log:     opts.Logger,
	}
	if b.growth == nil {
		b.growth = AdditiveGrowth(DefaultGrowthStep)
	}
	if b.log == nil {
		b.log = nopLogger{}
	}
	for ch := range b.stores {
		b.stores[ch] = []float32{}
	}
	if err := backend.Bind(Layout); err != nil {
		return nil, fmt.Errorf("batch: bind layout: %w", err)
	}
	return b, nil
}

// Count is the number of instances appended since the last flush.
func (b *Buffer) Count() int { return b.count }

// Cap is the number of allocated instance slots.
func (b *Buffer) Cap() int { return b.capacity }

func (b *Buffer) Stats() Stats { return b.stats }

// Frame is the number of BeginFrame calls so far.
func (b *Buffer) Frame() uint64 { return b.frame }

// Store returns the CPU store of ch. Its length is Cap()*ChannelWidth; only
// the first Count() slots hold this frame's data. The slice is invalidated
// by the next growth.
func (b *Buffer) Store(ch Channel) []float32 {
	return b.stores[ch]
}

// Record reads back slot i of the current frame.
func (b *Buffer) Record(i int) (Record, bool) {
	if i < 0 || i >= b.count {
		return Record{}, false
	}
	var r Record
	off := i * ChannelWidth
	copy(r.Destination[:], b.stores[ChannelDestination][off:off+ChannelWidth])
	copy(r.SourceOrColor[:], b.stores[ChannelSourceColor][off:off+ChannelWidth])
	copy(r.ShapeTransform[:], b.stores[ChannelShapeTransform][off:off+ChannelWidth])
	return r, true
}

// BeginFrame marks the start of a frame for the debug ordering checks.
func (b *Buffer) BeginFrame() {
	b.frame++
	b.frameStarted = true
	b.flushed = false
}

func (b *Buffer) AppendRecord(r Record) {
	b.Append(r.Destination, r.SourceOrColor, r.ShapeTransform)
}

// Append stores one instance at slot Count(), growing all stores when full.
func (b *Buffer) Append(dest, src, xf [4]float32) {
	if b.opts.Debug && b.frameStarted && b.flushed {
		panic(fmt.Sprintf("batch: append after flush in frame %d", b.frame))
	}
	if b.opts.MaxInstances > 0 && b.count >= b.opts.MaxInstances {
		b.stats.Truncated++
		if !b.truncated {
			b.truncated = true
			b.log.Warnf("batch: frame %d exceeds %d instances, dropping the rest", b.frame, b.opts.MaxInstances)
		}
		return
	}
	if b.count == b.capacity {
		b.grow()
	}

	i := b.count
	off := i * ChannelWidth
	copy(b.stores[ChannelDestination][off:off+ChannelWidth], dest[:])
	copy(b.stores[ChannelSourceColor][off:off+ChannelWidth], src[:])
	copy(b.stores[ChannelShapeTransform][off:off+ChannelWidth], xf[:])
	b.count++
	if b.count > b.stats.Peak {
		b.stats.Peak = b.count
	}

	b.pending(i, i+1)
}

// FlushAndReset uploads pending writes, issues one instanced draw of Count()
// instances and resets the count. Capacity is kept. It returns the number of
// instances drawn, which is zero when the frame was skipped after a backend
// fault.
func (b *Buffer) FlushAndReset() uint32 {
	if b.opts.Debug && b.frameStarted && b.flushed {
		panic(fmt.Sprintf("batch: flush called twice in frame %d", b.frame))
	}

	count := b.count
	if b.dirtyTo > b.dirtyFrom {
		if !b.faulted {
			b.upload(b.dirtyFrom, b.dirtyTo)
		}
		b.dirtyFrom, b.dirtyTo = 0, 0
	}

	var drawn uint32
	if !b.faulted {
		if err := b.backend.DrawInstanced(uint32(count)); err != nil {
			b.fault("draw %d instances: %v", count, err)
		} else {
			drawn = uint32(count)
		}
	}

	if b.faulted {
		b.stats.Skipped++
		b.log.Warnf("batch: frame %d skipped, %d instances dropped", b.frame, count)
	} else {
		b.stats.Frames++
	}

	b.count = 0
	b.faulted = false
	b.truncated = false
	b.flushed = true
	return drawn
}

// Release frees the backend resources and empties the buffer.
func (b *Buffer) Release() {
	if b.backend != nil {
		b.backend.Release()
		b.backend = nil
	}
	for ch := range b.stores {
		b.stores[ch] = nil
	}
	b.capacity = 0
	b.count = 0
}

func (b *Buffer) grow() {
	newCap := b.growth(b.capacity)
	if newCap <= b.capacity {
		newCap = b.capacity + 1
	}
	if err := b.backend.Resize(newCap); err != nil {
		panic(fmt.Errorf("batch: grow to %d instances: %w", newCap, err))
	}
	used := b.count * ChannelWidth
	for ch := range b.stores {
		grown := make([]float32, newCap*ChannelWidth)
		copy(grown, b.stores[ch][:used])
		b.stores[ch] = grown
	}
	b.log.Debugf("batch: capacity %d -> %d", b.capacity, newCap)
	b.capacity = newCap

	// Resize does not carry the GPU contents over.
	if b.count > 0 {
		b.pending(0, b.count)
	}
}

func (b *Buffer) pending(from, to int) {
	if b.opts.Upload == UploadImmediate {
		b.upload(from, to)
		return
	}
	if b.dirtyTo <= b.dirtyFrom {
		b.dirtyFrom, b.dirtyTo = from, to
		return
	}
	b.dirtyFrom = min(b.dirtyFrom, from)
	b.dirtyTo = max(b.dirtyTo, to)
}

func (b *Buffer) upload(from, to int) {
	if b.faulted {
		return
	}
	for ch := range b.stores {
		data := b.stores[ch][from*ChannelWidth : to*ChannelWidth]
		if err := b.backend.Upload(Channel(ch), from, data); err != nil {
			b.fault("upload %s [%d, %d): %v", Channel(ch), from, to, err)
			return
		}
	}
}

func (b *Buffer) fault(format string, args ...any) {
	if !b.faulted {
		b.log.Errorf("batch: "+format, args...)
	}
	b.faulted = true
}
