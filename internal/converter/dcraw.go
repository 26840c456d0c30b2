package converter

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ah-its-andy/rawbatch/internal/utils"
)

// DcrawDecoder decodes raw files by running dcraw and capturing its TIFF output.
type DcrawDecoder struct {
	Path string
}

func NewDcrawDecoder(path string) *DcrawDecoder {
	if path == "" {
		path = "dcraw"
	}
	return &DcrawDecoder{Path: path}
}

// Args builds the dcraw command line for srcPath.
func (d *DcrawDecoder) Args(srcPath string, opts DecodeOptions) []string {
	args := []string{"-c", "-T"}
	if opts.WhiteBalance == WhiteBalanceAuto {
		args = append(args, "-a")
	}
	if opts.NoiseThreshold > 0 {
		args = append(args, "-n", strconv.FormatFloat(opts.NoiseThreshold, 'f', -1, 64))
	}
	return append(args, srcPath)
}

func (d *DcrawDecoder) Decode(ctx context.Context, srcPath, dstPath string, opts DecodeOptions) error {
	if _, err := os.Stat(srcPath); err != nil {
		return err
	}

	tmpPath := dstPath + ".part"
	out, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create intermediate: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Path, d.Args(srcPath, opts)...)
	cmd.Stdout = out
	cmd.Stderr = &stderr
	runErr := cmd.Run()
	closeErr := out.Close()

	if runErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("dcraw failed: %w, output: %s", runErr, strings.TrimSpace(stderr.String()))
	}
	if closeErr != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close intermediate: %w", closeErr)
	}
	fi, err := os.Stat(tmpPath)
	if err != nil || fi.Size() == 0 {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("dcraw produced no output for %s: %s", srcPath, strings.TrimSpace(stderr.String()))
	}
	return utils.ReplaceFile(tmpPath, dstPath)
}

var _ RawDecoder = (*DcrawDecoder)(nil)
