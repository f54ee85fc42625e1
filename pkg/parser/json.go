package parser

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/schema"
	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

// DocumentParser turns line delimited research product documents into records
type DocumentParser struct {
	schema      *schema.EntitySchema
	maxLineSize int
}

func NewDocumentParser(entity *schema.EntitySchema) *DocumentParser {
	return &DocumentParser{schema: entity, maxLineSize: constants.MaxLineSize}
}

// StreamFile parses one document file, gzip compressed files are read transparently
func (p *DocumentParser) StreamFile(ctx context.Context, path string, callback ResultCallback) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open file[%s]: %s", path, err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("failed to open gzip stream of file[%s]: %s", path, err)
		}
		defer gz.Close()
		reader = gz
	}

	return p.StreamDocuments(ctx, reader, path, callback)
}

// StreamDocuments reads reader line by line; source names the input in parse errors.
// A line longer than the line size limit is skipped as a decode error.
func (p *DocumentParser) StreamDocuments(ctx context.Context, reader io.Reader, source string, callback ResultCallback) error {
	buffered := bufio.NewReaderSize(reader, 64*1024)

	lineNumber := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		raw, oversized, err := readLine(buffered, p.maxLineSize)
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("failed to read %s after line %d: %s", source, lineNumber, err)
		}
		eof := err != nil
		if eof && len(raw) == 0 && !oversized {
			return nil
		}
		lineNumber++

		var record *types.Record
		var parseErr *ParseError
		if oversized {
			parseErr = &ParseError{
				LineContent: truncate(string(raw[:min(len(raw), 4*lineContentLimit)])),
				Kind:        DecodeError,
				Message:     fmt.Sprintf("line exceeds %d bytes", p.maxLineSize),
			}
		} else {
			line := bytes.TrimSpace(raw)
			if len(line) == 0 {
				if eof {
					return nil
				}
				continue
			}
			record, parseErr = p.parseLine(line)
		}

		if parseErr != nil {
			parseErr.File = source
			parseErr.Line = lineNumber
			logger.Warnf("skipping line: %s", parseErr)
		}

		if err := callback(ctx, Result{Record: record, Err: parseErr}); err != nil {
			return fmt.Errorf("failed to process line %d of %s: %w", lineNumber, source, err)
		}
		if eof {
			return nil
		}
	}
}

// readLine returns the next line without its terminator. A line longer than limit is
// consumed up to its end and reported oversized, only its first limit bytes are kept.
func readLine(reader *bufio.Reader, limit int) ([]byte, bool, error) {
	var line []byte
	oversized := false
	for {
		chunk, err := reader.ReadSlice('\n')
		chunk = bytes.TrimSuffix(chunk, []byte("\n"))
		if !oversized {
			if len(line)+len(chunk) > limit {
				oversized = true
				line = append(line, chunk[:limit-len(line)]...)
			} else {
				line = append(line, chunk...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		return line, oversized, err
	}
}

// ParseLine decodes a single document, file and line of a returned error are left empty
func (p *DocumentParser) ParseLine(line []byte) (*types.Record, error) {
	record, parseErr := p.parseLine(bytes.TrimSpace(line))
	if parseErr != nil {
		return nil, parseErr
	}
	return record, nil
}

func (p *DocumentParser) parseLine(line []byte) (*types.Record, *ParseError) {
	document, err := decodeObject(line)
	if err != nil {
		return nil, &ParseError{
			LineContent: truncate(string(line)),
			Kind:        DecodeError,
			Message:     err.Error(),
		}
	}

	id, ok := document[constants.RecordID].(string)
	if !ok || id == "" {
		return nil, &ParseError{
			LineContent: truncate(string(line)),
			Kind:        ValidationError,
			Message:     fmt.Sprintf("field [%s] is required and must be a non-empty string, found %T", constants.RecordID, document[constants.RecordID]),
		}
	}

	record := types.NewRecord(id)
	for _, field := range p.schema.Fields() {
		raw, found := document[field.Name]
		if !found {
			continue
		}
		record.Set(field.Name, coerce(field.Type, raw))
	}
	return record, nil
}

func decodeObject(line []byte) (map[string]any, error) {
	decoder := json.NewDecoder(bytes.NewReader(line))
	decoder.UseNumber()

	var document any
	if err := decoder.Decode(&document); err != nil {
		return nil, err
	}
	if decoder.More() {
		return nil, errors.New("unexpected data after JSON document")
	}

	object, ok := document.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected a JSON object, found %T", document)
	}
	return object, nil
}
