package batch

// Channel identifies one of the parallel per-instance attribute stores.
type Channel int

const (
	ChannelDestination Channel = iota
	ChannelSourceColor
	ChannelShapeTransform
)

const (
	// ChannelCount is the number of parallel stores.
	ChannelCount = 3
	// ChannelWidth is the number of float32 components per channel and instance.
	ChannelWidth = 4
	// FloatsPerInstance is the total stride of one instance across all channels.
	FloatsPerInstance = ChannelCount * ChannelWidth
	// BytesPerChannelSlot is the byte size of one instance in one channel.
	BytesPerChannelSlot = ChannelWidth * 4

	// DefaultGrowthStep is the additive capacity increment.
	DefaultGrowthStep = 10
)

func (c Channel) String() string {
	switch c {
	case ChannelDestination:
		return "destination"
	case ChannelSourceColor:
		return "source_color"
	case ChannelShapeTransform:
		return "shape_transform"
	}
	return "unknown"
}

// Attribute describes how a channel is exposed to the shader program.
// Every attribute advances once per instance.
type Attribute struct {
	Channel  Channel
	Name     string
	Location uint32
	Width    int
}

// Layout is the per-instance attribute contract shared with the shaders.
// Locations 0 and 1 belong to the static quad (position, texcoord).
var Layout = []Attribute{
	{Channel: ChannelDestination, Name: "destination", Location: 2, Width: ChannelWidth},
	{Channel: ChannelSourceColor, Name: "source_color", Location: 3, Width: ChannelWidth},
	{Channel: ChannelShapeTransform, Name: "shape_transform", Location: 4, Width: ChannelWidth},
}

// Record is one primitive's data for one frame.
type Record struct {
	Destination    [4]float32
	SourceOrColor  [4]float32
	ShapeTransform [4]float32
}

func (r Record) channel(ch Channel) [4]float32 {
	switch ch {
	case ChannelDestination:
		return r.Destination
	case ChannelSourceColor:
		return r.SourceOrColor
	default:
		return r.ShapeTransform
	}
}
