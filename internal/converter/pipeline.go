package converter

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/ah-its-andy/rawbatch/internal/logging"
	"github.com/ah-its-andy/rawbatch/internal/utils"
)

// Pipeline runs the two conversion stages for one source file:
// raw -> intermediate TIFF -> sharpened JPEG.
type Pipeline struct {
	decoder RawDecoder
	encoder ImageEncoder
	opts    DecodeOptions
	kernel  Kernel
}

func NewPipeline(dec RawDecoder, enc ImageEncoder) *Pipeline {
	return &Pipeline{
		decoder: dec,
		encoder: enc,
		opts:    DefaultDecodeOptions,
		kernel:  SharpenKernel,
	}
}

// Convert decodes srcPath into intermediatePath, then filters and encodes it to
// dstPath. The intermediate is removed only after a successful encode.
// Errors are *StageError values.
func (p *Pipeline) Convert(ctx context.Context, srcPath, intermediatePath, dstPath string) error {
	if info, err := ReadCameraInfo(srcPath); err != nil {
		logging.Debug.Printf("no exif for %s: %v", srcPath, err)
	} else {
		logging.Info.Printf("Source %s: %s", srcPath, info)
	}

	logging.Debug.Printf("decoding %s to intermediate %s (white balance %s, noise threshold %g)",
		srcPath, intermediatePath, p.opts.WhiteBalance, p.opts.NoiseThreshold)
	if err := p.decoder.Decode(ctx, srcPath, intermediatePath, p.opts); err != nil {
		return stageErr(StageDecode, srcPath, err)
	}

	if _, err := os.Stat(intermediatePath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			logging.Warn.Printf("intermediate %s missing after decode, skipping encode", intermediatePath)
			return nil
		}
		return stageErr(StageIO, intermediatePath, err)
	}

	logging.Debug.Printf("applying sharpen filter and encoding %s", dstPath)
	if err := p.encoder.Encode(ctx, intermediatePath, dstPath, p.kernel); err != nil {
		if utils.Exists(dstPath + ".part") {
			_ = os.Remove(dstPath + ".part")
		}
		return stageErr(StageEncode, intermediatePath, err)
	}

	if err := os.Remove(intermediatePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return stageErr(StageCleanup, intermediatePath, err)
	}
	return nil
}
