package worker

import (
	"github.com/ah-its-andy/rawbatch/internal/utils"
	"github.com/google/uuid"
)

// Job is one raw file to convert. It is immutable once enqueued.
type Job struct {
	ID               string
	SourcePath       string
	IntermediatePath string
	DestinationPath  string
}

// NewJob derives the intermediate and destination paths for src under destName.
func NewJob(src, destName string) Job {
	tmp, dst := utils.DerivePaths(src, destName)
	return Job{
		ID:               uuid.NewString(),
		SourcePath:       src,
		IntermediatePath: tmp,
		DestinationPath:  dst,
	}
}
