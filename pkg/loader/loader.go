package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/destination"
	"github.com/cyfronet-fid/eosc-analyses/pkg/parser"
	"github.com/cyfronet-fid/eosc-analyses/pkg/source"
	"github.com/cyfronet-fid/eosc-analyses/schema"
	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
	"github.com/cyfronet-fid/eosc-analyses/utils/typeutils"
)

// Collection is one input root converted into one output namespace
type Collection struct {
	Name   string
	Input  string
	Output string
}

type WriterFactory func(ctx context.Context) (destination.Writer, error)

// Loader converts collections of research product documents into tables
type Loader struct {
	schema     *schema.EntitySchema
	parser     *parser.DocumentParser
	flattener  typeutils.Flattener
	newWriter  WriterFactory
	extensions []string
}

// New builds a loader for a schema whose nested fields are already applied.
// Without extensions only .json documents are read.
func New(entity *schema.EntitySchema, newWriter WriterFactory, extensions ...string) *Loader {
	if len(extensions) == 0 {
		extensions = []string{constants.DocumentFileExt}
	}
	return &Loader{
		schema:     entity,
		parser:     parser.NewDocumentParser(entity),
		flattener:  typeutils.NewFlattener(entity),
		newWriter:  newWriter,
		extensions: extensions,
	}
}

// RunAll converts collections one after another. A failing collection does not stop
// the others; every failure is returned aggregated.
func (l *Loader) RunAll(ctx context.Context, collections []Collection) ([]*Report, error) {
	var result *multierror.Error
	reports := []*Report{}
	for _, collection := range collections {
		if ctx.Err() != nil {
			result = multierror.Append(result, fmt.Errorf("collection[%s] not processed: %w", collection.Name, ctx.Err()))
			continue
		}

		report, err := l.Run(ctx, collection)
		if err != nil {
			logger.Errorf("collection[%s] failed: %s", collection.Name, err)
			result = multierror.Append(result, err)
			continue
		}
		reports = append(reports, report)
	}
	return reports, result.ErrorOrNil()
}

// Run enumerates, parses, flattens and writes one collection. Tables are only
// persisted when every document was read, a failure leaves earlier artifacts untouched.
func (l *Loader) Run(ctx context.Context, collection Collection) (*Report, error) {
	report := &Report{
		RunID:         utils.ULID(),
		Collection:    collection.Name,
		SchemaVersion: l.schema.Version,
		Input:         collection.Input,
		Output:        collection.Output,
		StartedAt:     time.Now().UTC(),
		Tables:        []destination.Artifact{},
	}

	listing, err := source.Discover(collection.Input, l.extensions)
	if err != nil {
		return nil, err
	}
	report.FilesDiscovered = listing.Count()
	logger.Infof("Run[%s]: found %d documents for collection[%s] under %s", report.RunID, listing.Count(), collection.Name, collection.Input)

	writer, err := l.newWriter(ctx)
	if err != nil {
		return nil, &WriteError{Collection: collection.Name, Err: err}
	}
	options := destination.NewOptions(
		destination.WithRunID(report.RunID),
		destination.WithOutputPath(collection.Output),
	)
	if err := writer.Setup(ctx, collection.Name, options); err != nil {
		return nil, &WriteError{Collection: collection.Name, Err: err}
	}

	for idx, file := range listing.Files() {
		err := l.parser.StreamFile(ctx, file, func(ctx context.Context, result parser.Result) error {
			report.Lines++
			if result.Err != nil {
				report.addParseError(result.Err)
				return nil
			}
			return l.process(ctx, writer, report, result)
		})
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("collection[%s] interrupted: %w", collection.Name, ctx.Err())
			}
			var writeErr *WriteError
			if errors.As(err, &writeErr) {
				return nil, writeErr
			}
			logger.Errorf("Run[%s]: failed to read %s: %s", report.RunID, file, err)
			report.FilesFailed = append(report.FilesFailed, file)
		}
		logger.Debugf("Run[%s]: processed %d/%d files", report.RunID, idx+1, listing.Count())
	}

	artifacts, err := writer.Close(ctx)
	if err != nil {
		return nil, &WriteError{Collection: collection.Name, Err: err}
	}
	report.Tables = artifacts
	report.FinishedAt = time.Now().UTC()

	reportPath := filepath.Join(collection.Output, fmt.Sprintf("%s_%s", collection.Name, constants.ReportFileSuffix))
	if err := logger.FileLoggerWithPath(report, reportPath); err != nil {
		logger.Warnf("Run[%s]: failed to save report: %s", report.RunID, err)
	}

	logger.Infof("Run[%s]: collection[%s] done: %d records, %d skipped lines (%d decode, %d validation), %d shape warnings, %d tables",
		report.RunID, collection.Name, report.Records, report.Skipped(), report.DecodeErrors, report.ValidationErrors, report.ShapeWarnings, len(report.Tables))
	return report, nil
}

// process flattens one record and hands its rows to the writer
func (l *Loader) process(ctx context.Context, writer destination.Writer, report *Report, result parser.Result) error {
	flattened, err := l.flattener.Flatten(result.Record)
	if err != nil {
		return err
	}

	for _, warning := range flattened.Warnings {
		report.ShapeWarnings++
		logger.Warnf("shape coercion: %s", warning)
	}

	if err := writer.Write(ctx, constants.PrimaryTable, []*types.Row{flattened.Primary}); err != nil {
		return &WriteError{Collection: report.Collection, Err: err}
	}
	for _, nested := range flattened.Nested {
		if err := writer.Write(ctx, nested.Field, nested.Rows); err != nil {
			return &WriteError{Collection: report.Collection, Err: err}
		}
	}

	report.Records++
	return nil
}
