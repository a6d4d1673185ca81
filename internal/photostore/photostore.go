package photostore

import (
	"context"
	"io"
)

// PhotoStore is a flat directory of image files addressed by file name.
type PhotoStore interface {
	// Save writes r under name and returns the stored file's path.
	Save(ctx context.Context, name string, r io.Reader) (path string, err error)
	// Copy duplicates the file at srcPath byte for byte under name.
	Copy(ctx context.Context, srcPath, name string) (path string, err error)
	Open(ctx context.Context, name string) (io.ReadCloser, string, error)
	// Purge removes every file in the store. Individual failures are logged
	// and counted rather than aborting the sweep.
	Purge(ctx context.Context) (PurgeResult, error)
	Dir() string
}

type PurgeResult struct {
	Removed int `json:"removed"`
	Failed  int `json:"failed"`
}
