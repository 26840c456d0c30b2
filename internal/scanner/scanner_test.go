package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/ah-its-andy/rawbatch/internal/converter"
	"github.com/ah-its-andy/rawbatch/internal/utils"
	"github.com/ah-its-andy/rawbatch/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func drain(q *worker.Queue) []worker.Job {
	var jobs []worker.Job
	for {
		job, err := q.Dequeue(context.Background(), time.Millisecond)
		if err != nil {
			break
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].SourcePath < jobs[j].SourcePath })
	return jobs
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "shoot1", "img001.CR2"))
	touch(t, filepath.Join(root, "shoot1", "img002.ARW"))
	touch(t, filepath.Join(root, "shoot1", "img003.cr2"))
	touch(t, filepath.Join(root, "shoot1", "notes.txt"))
	touch(t, filepath.Join(root, "shoot2", "day1", "DSC0001.ARW"))
	touch(t, filepath.Join(root, "text-only", "notes.txt"))

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 3, Enqueued: 3}, sum)

	jobs := drain(q)
	require.Len(t, jobs, 3)

	want := []string{
		filepath.Join(root, "shoot1", "img001.CR2"),
		filepath.Join(root, "shoot1", "img002.ARW"),
		filepath.Join(root, "shoot2", "day1", "DSC0001.ARW"),
	}
	for i, job := range jobs {
		assert.Equal(t, want[i], job.SourcePath)
		tmp, dst := utils.DerivePaths(job.SourcePath, "jpeg")
		assert.Equal(t, tmp, job.IntermediatePath)
		assert.Equal(t, dst, job.DestinationPath)
		assert.DirExists(t, filepath.Dir(job.DestinationPath), "destination directory exists before the job is queued")
	}
	assert.Equal(t, filepath.Join(root, "shoot1", "jpeg", "shoot1_img001.jpeg"), jobs[0].DestinationPath)
	assert.Equal(t, filepath.Join(root, "shoot2", "day1", "jpeg", "day1_DSC0001.tiff"), jobs[2].IntermediatePath)

	assert.NoDirExists(t, filepath.Join(root, "text-only", "jpeg"))
	assert.NoDirExists(t, filepath.Join(root, "shoot2", "jpeg"))
	assert.NoDirExists(t, filepath.Join(root, "jpeg"))
}

func TestScan_SkipsFileWhenDestinationCannotBeCreated(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "blocked", "img001.CR2"))
	// a regular file where the output directory should go
	touch(t, filepath.Join(root, "blocked", "jpeg"))
	touch(t, filepath.Join(root, "ok", "img002.CR2"))

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 2, Enqueued: 1, Skipped: 1}, sum)

	jobs := drain(q)
	require.Len(t, jobs, 1)
	assert.Equal(t, filepath.Join(root, "ok", "img002.CR2"), jobs[0].SourcePath)
}

func TestScan_ExistingOutputDirectoryIsScanned(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "shoot1", "img001.CR2"))
	// left over from an earlier run
	touch(t, filepath.Join(root, "shoot1", "jpeg", "shoot1_img000.jpeg"))
	touch(t, filepath.Join(root, "shoot1", "jpeg", "stray.CR2"))

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 2, Enqueued: 2}, sum)

	jobs := drain(q)
	require.Len(t, jobs, 2)
	assert.Equal(t, filepath.Join(root, "shoot1", "img001.CR2"), jobs[0].SourcePath)
	assert.Equal(t, filepath.Join(root, "shoot1", "jpeg", "stray.CR2"), jobs[1].SourcePath)
	assert.Equal(t, filepath.Join(root, "shoot1", "jpeg", "jpeg", "jpeg_stray.jpeg"), jobs[1].DestinationPath)
}

func TestScan_SourceFolderNamedLikeDestination(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "export", "img001.CR2"))

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "export")
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 1, Enqueued: 1}, sum)

	jobs := drain(q)
	require.Len(t, jobs, 1)
	assert.Equal(t, filepath.Join(root, "export", "export", "export_img001.jpeg"), jobs[0].DestinationPath)
	assert.DirExists(t, filepath.Join(root, "export", "export"))
}

func TestScan_CreatedOutputDirectoryIsNotScanned(t *testing.T) {
	root := t.TempDir()
	// sorts after the output directory, so the walk reaches it after jpeg/ is created
	touch(t, filepath.Join(root, "shoot1", "a.CR2"))
	touch(t, filepath.Join(root, "shoot1", "z.CR2"))

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 2, Enqueued: 2}, sum)
}

func TestScan_RelativeRootYieldsAbsolutePaths(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "shoot1", "img001.CR2"))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Join(base, "shoot1")))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), ".", "jpeg")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Enqueued)

	jobs := drain(q)
	require.Len(t, jobs, 1)
	assert.True(t, filepath.IsAbs(jobs[0].SourcePath))
	assert.True(t, filepath.IsAbs(jobs[0].DestinationPath))
	assert.Equal(t, "shoot1_img001.jpeg", filepath.Base(jobs[0].DestinationPath))
	assert.Equal(t, "shoot1_img001.tiff", filepath.Base(jobs[0].IntermediatePath))
}

func TestScan_RootNamedLikeDestinationIsStillScanned(t *testing.T) {
	root := filepath.Join(t.TempDir(), "jpeg")
	touch(t, filepath.Join(root, "img001.CR2"))

	q := worker.NewQueue()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Enqueued)
}

func TestScan_RejectedByClosedQueue(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "s", "a.CR2"))

	q := worker.NewQueue()
	q.StopAccepting()
	sum, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), root, "jpeg")
	require.NoError(t, err)
	assert.Equal(t, Summary{Found: 1, Skipped: 1}, sum)
}

func TestScan_MissingRoot(t *testing.T) {
	q := worker.NewQueue()
	_, err := New(converter.DefaultRegistry(), q).Scan(context.Background(), filepath.Join(t.TempDir(), "nope"), "jpeg")
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Equal(t, 0, q.Len())
}

func TestScan_ContextCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "s", "a.CR2"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	q := worker.NewQueue()
	_, err := New(converter.DefaultRegistry(), q).Scan(ctx, root, "jpeg")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, q.Len())
}
