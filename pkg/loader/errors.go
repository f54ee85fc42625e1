package loader

import (
	"fmt"

	"github.com/cyfronet-fid/eosc-analyses/pkg/source"
	"github.com/cyfronet-fid/eosc-analyses/utils/typeutils"
)

type (
	// DiscoveryError stops the collection: its root can not be enumerated
	DiscoveryError = source.DiscoveryError
	// ShapeCoercionWarning is recovered: the value is emitted wrapped as {field: value}
	ShapeCoercionWarning = typeutils.ShapeCoercionWarning
)

// WriteError stops the collection: its tables could not be set up or persisted.
// Artifacts of earlier runs are left untouched.
type WriteError struct {
	Collection string
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write tables of collection[%s]: %s", e.Collection, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
