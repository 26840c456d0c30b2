package utils

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	IntermediateExt = "tiff"
	OutputExt       = "jpeg"
)

// OutputDir returns the destination subdirectory for a source file: D/S.
func OutputDir(src, destName string) string {
	return filepath.Join(filepath.Dir(src), destName)
}

// DerivePaths maps D/B.ext to D/S/T_B.tiff and D/S/T_B.jpeg where T is the
// last segment of D. It only looks at the path strings.
func DerivePaths(src, destName string) (intermediate, output string) {
	dir := filepath.Dir(src)
	top := filepath.Base(dir)
	base := filepath.Base(src)
	stem := top + "_" + strings.TrimSuffix(base, filepath.Ext(base))
	outDir := filepath.Join(dir, destName)
	return filepath.Join(outDir, stem+"."+IntermediateExt), filepath.Join(outDir, stem+"."+OutputExt)
}

// Exists reports whether path can be stat'ed.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir (one level) unless it already is a directory.
func EnsureDir(dir string) (created bool, err error) {
	fi, err := os.Stat(dir)
	if err == nil {
		if !fi.IsDir() {
			return false, &fs.PathError{Op: "mkdir", Path: dir, Err: errors.New("exists and is not a directory")}
		}
		return false, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return false, err
	}
	if err := os.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			// lost a race with another creator
			if fi, serr := os.Stat(dir); serr == nil && fi.IsDir() {
				return false, nil
			}
		}
		return false, err
	}
	return true, nil
}

// ReplaceFile renames tmp over dst, removing tmp if the rename fails.
func ReplaceFile(tmp, dst string) error {
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
