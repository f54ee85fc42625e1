package parquet

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/moby/sys/atomicwriter"
	pqgo "github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/destination"
	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils/backoff"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

const (
	writeAttempts   = 3
	writeRetryPause = 200 * time.Millisecond
)

// Parquet destination keeps every table of a collection in memory and writes one
// parquet file per nonempty table when closed.
type Parquet struct {
	options    *destination.Options
	config     *Config
	collection string
	tables     *destination.TableSet
}

// GetConfigRef returns the config reference for the parquet writer.
func (p *Parquet) GetConfigRef() destination.Config {
	p.config = &Config{}
	return p.config
}

// Type returns the type of the writer.
func (p *Parquet) Type() string {
	return string(types.Parquet)
}

// Setup prepares an empty table set for a collection and checks its output directory.
func (p *Parquet) Setup(ctx context.Context, collection string, options *destination.Options) error {
	if collection == "" {
		return fmt.Errorf("collection name is required")
	}
	if options == nil || options.OutputPath == "" {
		return fmt.Errorf("output path of collection[%s] is required", collection)
	}
	if p.config == nil {
		p.GetConfigRef()
		if err := p.config.Validate(); err != nil {
			return err
		}
	}

	p.options = options
	p.collection = collection
	p.tables = destination.NewTableSet()

	return p.Check(ctx)
}

// Check validates the output directory exists (creating it) and is writable.
func (p *Parquet) Check(_ context.Context) error {
	if p.options == nil || p.options.OutputPath == "" {
		return fmt.Errorf("invalid configuration found: output path missing")
	}

	if err := os.MkdirAll(p.options.OutputPath, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create path: %s", err)
	}

	// Test directory writability
	tempFile, err := os.CreateTemp(p.options.OutputPath, "temporary-*.txt")
	if err != nil {
		return fmt.Errorf("directory is not writable: %s", err)
	}
	tempFile.Close()
	os.Remove(tempFile.Name())
	return nil
}

// Write appends rows to the named table
func (p *Parquet) Write(ctx context.Context, table string, rows []*types.Row) error {
	if p.tables == nil {
		return fmt.Errorf("writer used before setup")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	p.tables.Table(table).Add(rows...)
	return nil
}

// Close encodes and persists every nonempty table, then removes artifacts of the
// collection this run did not produce.
func (p *Parquet) Close(ctx context.Context) ([]destination.Artifact, error) {
	if p.tables == nil {
		return nil, nil
	}
	defer func() {
		p.tables = destination.NewTableSet()
	}()

	artifacts := []destination.Artifact{}
	produced := map[string]struct{}{}
	for _, table := range p.tables.NonEmpty() {
		select {
		case <-ctx.Done():
			return artifacts, ctx.Err()
		default:
		}

		artifact, err := p.writeTable(ctx, table)
		if err != nil {
			return artifacts, fmt.Errorf("failed to write table[%s]: %s", table.Name, err)
		}
		produced[artifact.Path] = struct{}{}
		artifacts = append(artifacts, artifact)
	}

	stale, err := p.artifactPaths(p.collection)
	if err != nil {
		return artifacts, err
	}
	for _, path := range stale {
		if _, found := produced[path]; found {
			continue
		}
		removeLocalFile(path, "not produced by this run")
	}

	return artifacts, nil
}

func (p *Parquet) writeTable(ctx context.Context, table *destination.Table) (destination.Artifact, error) {
	start := time.Now()
	path := filepath.Join(p.options.OutputPath, ArtifactName(p.collection, table.Name))

	data, err := p.encode(table)
	if err != nil {
		return destination.Artifact{}, err
	}

	fingerprint, err := table.Fingerprint()
	if err != nil {
		return destination.Artifact{}, err
	}

	// temp file + rename, a reader never sees a half written table
	err = backoff.Retry(ctx, writeAttempts, writeRetryPause, func() error {
		return atomicwriter.WriteFile(path, data, 0o644)
	}, backoff.IsTransientIOError)
	if err != nil {
		return destination.Artifact{}, fmt.Errorf("failed to write file[%s]: %s", path, err)
	}

	logger.Infof("Run[%s]: wrote %d rows, %d columns to %s in %s", p.options.RunID, table.Len(), table.Schema().Len(), path, time.Since(start).Round(time.Millisecond))
	return destination.Artifact{
		Table:       table.Name,
		Path:        path,
		Rows:        table.Len(),
		Columns:     table.Schema().Len(),
		Fingerprint: fingerprint,
	}, nil
}

// encode writes the complete table into memory
func (p *Parquet) encode(table *destination.Table) ([]byte, error) {
	records, err := table.Records()
	if err != nil {
		return nil, err
	}

	rows := make([]any, 0, len(records))
	for _, record := range records {
		rows = append(rows, record)
	}

	var buf bytes.Buffer
	writer := pqgo.NewGenericWriter[any](&buf, table.Schema().ToParquet(table.Name), pqgo.Compression(p.config.codec()))
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("failed to write in parquet file: %s", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close writer: %s", err)
	}
	return buf.Bytes(), nil
}

// DropCollection removes the tables of a collection from the output directory
func (p *Parquet) DropCollection(_ context.Context, collection string) error {
	if p.options == nil || p.options.OutputPath == "" {
		return fmt.Errorf("output path of collection[%s] is required", collection)
	}

	paths, err := p.artifactPaths(collection)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Infof("no artifacts found for collection[%s], skipping clear operation", collection)
		return nil
	}

	for _, path := range paths {
		logger.Infof("clearing local path: %s", path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove local path %s: %s", path, err)
		}
	}
	return nil
}

func (p *Parquet) artifactPaths(collection string) ([]string, error) {
	pattern := filepath.Join(p.options.OutputPath, fmt.Sprintf("%s_*.%s", escapeGlob(collection), constants.ParquetFileExt))
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts of collection[%s]: %s", collection, err)
	}
	return paths, nil
}

// ArtifactName is {collection}_{table}.parquet
func ArtifactName(collection, table string) string {
	return fmt.Sprintf("%s_%s.%s", collection, table, constants.ParquetFileExt)
}

func removeLocalFile(filePath, reason string) {
	err := os.Remove(filePath)
	if err != nil {
		logger.Warnf("Failed to delete file [%s], reason (%s): %s", filePath, reason, err)
		return
	}
	logger.Debugf("Deleted file [%s], reason (%s).", filePath, reason)
}

func escapeGlob(name string) string {
	replacer := strings.NewReplacer(`*`, `\*`, `?`, `\?`, `[`, `\[`, `\`, `\\`)
	return replacer.Replace(name)
}

// codec maps the configured compression name to a parquet codec
func (c *Config) codec() compress.Codec {
	switch c.Compression {
	case "gzip":
		return &pqgo.Gzip
	case "zstd":
		return &pqgo.Zstd
	case "none":
		return &pqgo.Uncompressed
	default:
		return &pqgo.Snappy
	}
}

func init() {
	destination.RegisteredWriters[types.Parquet] = func() destination.Writer {
		return new(Parquet)
	}
}
