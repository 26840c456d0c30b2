package converter

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step an error came from.
type Stage string

const (
	StageDecode  Stage = "decode"
	StageEncode  Stage = "encode"
	StageCleanup Stage = "cleanup"
	StageIO      Stage = "io"
)

// StageError tags a conversion failure with the stage that produced it.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func stageErr(stage Stage, path string, err error) error {
	return &StageError{Stage: stage, Path: path, Err: err}
}

// StageOf returns the stage of the first StageError in err's chain.
func StageOf(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return "", false
}

func IsDecode(err error) bool {
	s, ok := StageOf(err)
	return ok && s == StageDecode
}

func IsEncode(err error) bool {
	s, ok := StageOf(err)
	return ok && s == StageEncode
}
