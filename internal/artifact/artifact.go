// Package artifact stores exported documents. A Sink receives finished
// files by name; the directory sink writes them locally, the S3 sink
// uploads them to a bucket.
package artifact

import (
	"context"
	"errors"
	"fmt"
)

// Sink kinds.
const (
	KindFS = "fs"
	KindS3 = "s3"
)

// Sentinel errors for sink operations.
var (
	ErrUnknownSink  = errors.New("unknown artifact sink")
	ErrInvalidName  = errors.New("invalid artifact name")
	ErrBucketNeeded = errors.New("s3 bucket required")
)

// Sink stores one artifact and returns where it landed.
type Sink interface {
	Put(ctx context.Context, name, contentType string, data []byte) (location string, err error)
}

// Options selects and configures a sink.
type Options struct {
	Kind string // "fs" (default) or "s3"
	Dir  string // fs root (default ".")
	S3   S3Config
}

// Open returns the sink selected by opts.Kind.
func Open(ctx context.Context, opts Options) (Sink, error) {
	switch opts.Kind {
	case "", KindFS:
		return NewDir(opts.Dir), nil
	case KindS3:
		return NewS3(ctx, opts.S3)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSink, opts.Kind)
}
