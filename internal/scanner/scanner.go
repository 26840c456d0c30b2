package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/ah-its-andy/rawbatch/internal/converter"
	"github.com/ah-its-andy/rawbatch/internal/logging"
	"github.com/ah-its-andy/rawbatch/internal/utils"
	"github.com/ah-its-andy/rawbatch/internal/worker"
)

// Summary counts what a scan found.
type Summary struct {
	Found    int // eligible raw files
	Enqueued int
	Skipped  int // eligible files with no job, see the log for why
}

// Scanner walks a tree once and enqueues a job per eligible raw file.
type Scanner struct {
	formats *converter.Registry
	queue   *worker.Queue
}

func New(formats *converter.Registry, q *worker.Queue) *Scanner {
	return &Scanner{formats: formats, queue: q}
}

// Scan walks root and, for every allow-listed raw file, creates the sibling
// destName directory and enqueues a job. A file whose destination directory
// cannot be created is logged and skipped. Directories created by this walk
// are not descended into; a destName directory that already existed is
// scanned like any other.
func (s *Scanner) Scan(ctx context.Context, root, destName string) (Summary, error) {
	var sum Summary

	// job paths are absolute, and the folder prefix needs a real name, not "."
	abs, err := filepath.Abs(root)
	if err != nil {
		return sum, fmt.Errorf("resolve %s: %w", root, err)
	}
	root = abs
	logging.Info.Printf("Walking directory %s", root)

	created := make(map[string]bool)

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logging.Error.Printf("scan error at %s: %v", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if d.IsDir() {
			if created[path] {
				logging.Debug.Printf("skipping output directory %s", path)
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !s.formats.Eligible(path) {
			return nil
		}

		sum.Found++
		logging.Info.Printf("Found raw image file: %s", path)

		outDir := utils.OutputDir(path, destName)
		made, err := utils.EnsureDir(outDir)
		if err != nil {
			logging.Error.Printf("Error creating export directory %s: %v", outDir, err)
			sum.Skipped++
			return nil
		}
		if made {
			created[outDir] = true
			logging.Debug.Printf("Made export directory %s", outDir)
		}

		job := worker.NewJob(path, destName)
		if !s.queue.Enqueue(job) {
			logging.Warn.Printf("queue rejected job for %s", path)
			sum.Skipped++
			return nil
		}
		sum.Enqueued++
		logging.Debug.Printf("Added job %s to queue: %s", job.ID, job.DestinationPath)
		return nil
	})

	logging.Info.Printf("Scan complete: %d raw files found, %d queued, %d skipped", sum.Found, sum.Enqueued, sum.Skipped)
	return sum, err
}
