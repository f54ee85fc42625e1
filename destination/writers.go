package destination

import (
	"context"
	"fmt"

	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils"
)

type (
	NewFunc func() Writer

	Options struct {
		// RunID identifies the conversion run in logs and reports
		RunID string
		// OutputPath is the directory receiving the collection artifacts
		OutputPath string
	}

	WriterOption func(opt *Options)

	// Artifact describes one persisted table
	Artifact struct {
		Table       string `json:"table"`
		Path        string `json:"path"`
		Rows        int    `json:"rows"`
		Columns     int    `json:"columns"`
		Fingerprint uint64 `json:"fingerprint"`
	}
)

var RegisteredWriters = map[types.DestinationType]NewFunc{}

func WithRunID(runID string) WriterOption {
	return func(opt *Options) {
		opt.RunID = runID
	}
}

func WithOutputPath(path string) WriterOption {
	return func(opt *Options) {
		opt.OutputPath = path
	}
}

func NewOptions(options ...WriterOption) *Options {
	opts := &Options{}
	for _, one := range options {
		one(opts)
	}
	return opts
}

// NewWriter builds a configured writer of the registered type
func NewWriter(config *types.WriterConfig) (Writer, error) {
	newfunc, found := RegisteredWriters[config.Type]
	if !found {
		return nil, fmt.Errorf("invalid destination type has been passed [%s]", config.Type)
	}

	writer := newfunc()
	configRef := writer.GetConfigRef()
	if config.WriterConfig != nil {
		if err := utils.Unmarshal(config.WriterConfig, configRef); err != nil {
			return nil, fmt.Errorf("failed to read %s writer config: %s", config.Type, err)
		}
	}

	if err := configRef.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s writer config: %s", config.Type, err)
	}
	return writer, nil
}

// Factory returns a constructor producing a fresh writer for every collection run
func Factory(config *types.WriterConfig) func(ctx context.Context) (Writer, error) {
	return func(_ context.Context) (Writer, error) {
		return NewWriter(config)
	}
}
