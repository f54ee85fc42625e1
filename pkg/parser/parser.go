package parser

import (
	"context"
	"fmt"

	"github.com/cyfronet-fid/eosc-analyses/types"
)

type ErrorKind string

const (
	// DecodeError marks a line that is not a JSON object
	DecodeError ErrorKind = "decode"
	// ValidationError marks a document without a usable id
	ValidationError ErrorKind = "validation"
)

// maximum number of characters of an offending line kept in a ParseError
const lineContentLimit = 512

// ParseError describes one skipped line. It never aborts the file being parsed.
type ParseError struct {
	File        string    `json:"file"`
	Line        int       `json:"line"`
	LineContent string    `json:"line_content"`
	Kind        ErrorKind `json:"kind"`
	Message     string    `json:"message"`
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s error at %s:%d: %s", e.Kind, e.File, e.Line, e.Message)
}

// Result carries either a parsed record or the reason a line was skipped
type Result struct {
	Record *types.Record
	Err    *ParseError
}

// ResultCallback is called for each non-blank line in file order.
// Returning an error stops the stream.
type ResultCallback func(ctx context.Context, result Result) error

func truncate(line string) string {
	runes := []rune(line)
	if len(runes) <= lineContentLimit {
		return line
	}
	return string(runes[:lineContentLimit]) + "..."
}
