package converter

import (
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/tiff"
)

func writeTIFF(t *testing.T, path string, w, h int, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, tiff.Encode(f, img, nil))
}

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dcraw")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755))
	return path
}

// tiffDecoder writes a small gray TIFF instead of decoding anything.
type tiffDecoder struct {
	t     *testing.T
	calls int
}

func (d *tiffDecoder) Decode(_ context.Context, _, dst string, _ DecodeOptions) error {
	d.calls++
	writeTIFF(d.t, dst, 8, 8, color.Gray{Y: 128})
	return nil
}

type failingDecoder struct{}

func (failingDecoder) Decode(context.Context, string, string, DecodeOptions) error {
	return errors.New("unsupported camera model")
}

// garbageDecoder leaves bytes that are not a TIFF.
type garbageDecoder struct{}

func (garbageDecoder) Decode(_ context.Context, _, dst string, _ DecodeOptions) error {
	return os.WriteFile(dst, []byte("definitely not a tiff"), 0o644)
}

// silentDecoder reports success without producing anything.
type silentDecoder struct{}

func (silentDecoder) Decode(context.Context, string, string, DecodeOptions) error { return nil }

type countingEncoder struct {
	calls int
	err   error
}

func (e *countingEncoder) Encode(_ context.Context, _, dst string, _ Kernel) error {
	e.calls++
	if e.err != nil {
		return e.err
	}
	return os.WriteFile(dst, []byte("jpeg"), 0o644)
}
