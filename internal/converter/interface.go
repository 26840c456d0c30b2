package converter

import (
	"context"
)

// WhiteBalance selects how the raw decoder picks channel multipliers.
type WhiteBalance int

// WhiteBalanceAuto averages the whole image.
const WhiteBalanceAuto WhiteBalance = iota

func (w WhiteBalance) String() string {
	if w == WhiteBalanceAuto {
		return "auto"
	}
	return "unknown"
}

// DecodeOptions configures the raw decode stage.
type DecodeOptions struct {
	WhiteBalance   WhiteBalance
	NoiseThreshold float64
}

// DefaultDecodeOptions is the fixed decode policy.
var DefaultDecodeOptions = DecodeOptions{
	WhiteBalance:   WhiteBalanceAuto,
	NoiseThreshold: 0.5,
}

// RawDecoder turns a camera raw file into an uncompressed bitmap at dstPath.
//
// Implementations must not leave a partially written dstPath behind on failure.
type RawDecoder interface {
	Decode(ctx context.Context, srcPath, dstPath string, opts DecodeOptions) error
}

// ImageEncoder loads the bitmap at srcPath, convolves it with kernel and
// writes a JPEG to dstPath. A failed call leaves no dstPath.
type ImageEncoder interface {
	Encode(ctx context.Context, srcPath, dstPath string, kernel Kernel) error
}

// Kernel is a 3x3 convolution mask applied in integer precision: each output
// sample is sum(weight*input)/Scale, rounded and clamped.
type Kernel struct {
	Weights [9]int
	Scale   int
}

// SharpenKernel has center 16, all neighbours -1, scale 8.
var SharpenKernel = Kernel{
	Weights: [9]int{
		-1, -1, -1,
		-1, 16, -1,
		-1, -1, -1,
	},
	Scale: 8,
}

// Floats returns the weights pre-divided by Scale.
func (k Kernel) Floats() [9]float64 {
	scale := k.Scale
	if scale == 0 {
		scale = 1
	}
	var out [9]float64
	for i, w := range k.Weights {
		out[i] = float64(w) / float64(scale)
	}
	return out
}
