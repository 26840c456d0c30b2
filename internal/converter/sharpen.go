package converter

import (
	"context"
	"fmt"
	"os"

	"github.com/ah-its-andy/rawbatch/internal/utils"
	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"
)

// SharpenEncoder convolves a TIFF bitmap and writes it as JPEG.
type SharpenEncoder struct {
	Quality int
}

func NewSharpenEncoder(quality int) *SharpenEncoder {
	if quality <= 0 || quality > 100 {
		quality = 95
	}
	return &SharpenEncoder{Quality: quality}
}

func (e *SharpenEncoder) Encode(ctx context.Context, srcPath, dstPath string, kernel Kernel) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	img, err := tiff.Decode(f)
	f.Close()
	if err != nil {
		return fmt.Errorf("decode tiff %s: %w", srcPath, err)
	}

	sharp := imaging.Convolve3x3(img, kernel.Floats(), &imaging.ConvolveOptions{})

	tmpPath := dstPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := imaging.Encode(out, sharp, imaging.JPEG, imaging.JPEGQuality(e.Quality)); err != nil {
		out.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("encode jpeg: %w", err)
	}
	if err := out.Sync(); err != nil {
		out.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("sync output: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close output: %w", err)
	}
	return utils.ReplaceFile(tmpPath, dstPath)
}

var _ ImageEncoder = (*SharpenEncoder)(nil)
