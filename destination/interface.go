package destination

import (
	"context"

	"github.com/cyfronet-fid/eosc-analyses/types"
)

type Config interface {
	Validate() error
}

type Writer interface {
	GetConfigRef() Config
	Type() string
	// Check verifies the output location is usable
	//
	// Note: Check shouldn't be called before Setup, the output location comes with the options
	Check(ctx context.Context) error
	// Setup prepares the writer for one collection run
	Setup(ctx context.Context, collection string, opts *Options) error
	// Write accumulates rows of a table in memory, nothing is persisted before Close
	Write(ctx context.Context, table string, rows []*types.Row) error
	// DropCollection removes every artifact previously written for a collection
	DropCollection(ctx context.Context, collection string) error
	// Close persists every nonempty table, each one all-or-nothing, and returns what was written
	Close(ctx context.Context) ([]Artifact, error)
}
