package worker

import "context"

// Converter runs the conversion for a single job.
type Converter interface {
	Convert(ctx context.Context, srcPath, intermediatePath, dstPath string) error
}

// ConverterFunc adapts a plain function to Converter.
type ConverterFunc func(ctx context.Context, srcPath, intermediatePath, dstPath string) error

func (f ConverterFunc) Convert(ctx context.Context, srcPath, intermediatePath, dstPath string) error {
	return f(ctx, srcPath, intermediatePath, dstPath)
}
