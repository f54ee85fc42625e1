package loader

import (
	"time"

	"github.com/cyfronet-fid/eosc-analyses/destination"
	"github.com/cyfronet-fid/eosc-analyses/pkg/parser"
)

// number of parse errors kept verbatim in a report
const maxErrorSamples = 20

// Report summarizes one collection run
type Report struct {
	RunID            string                 `json:"run_id"`
	Collection       string                 `json:"collection"`
	SchemaVersion    string                 `json:"schema_version"`
	Input            string                 `json:"input"`
	Output           string                 `json:"output"`
	StartedAt        time.Time              `json:"started_at"`
	FinishedAt       time.Time              `json:"finished_at"`
	FilesDiscovered  int                    `json:"files_discovered"`
	FilesFailed      []string               `json:"files_failed,omitempty"`
	Lines            int                    `json:"lines"`
	Records          int                    `json:"records"`
	DecodeErrors     int                    `json:"decode_errors"`
	ValidationErrors int                    `json:"validation_errors"`
	ShapeWarnings    int                    `json:"shape_warnings"`
	ErrorSamples     []*parser.ParseError   `json:"error_samples,omitempty"`
	Tables           []destination.Artifact `json:"tables"`
}

// Skipped counts lines that did not become a record
func (r *Report) Skipped() int {
	return r.DecodeErrors + r.ValidationErrors
}

func (r *Report) addParseError(parseErr *parser.ParseError) {
	switch parseErr.Kind {
	case parser.DecodeError:
		r.DecodeErrors++
	case parser.ValidationError:
		r.ValidationErrors++
	}
	if len(r.ErrorSamples) < maxErrorSamples {
		r.ErrorSamples = append(r.ErrorSamples, parseErr)
	}
}

// Table returns the artifact written for a table
func (r *Report) Table(name string) (destination.Artifact, bool) {
	for _, artifact := range r.Tables {
		if artifact.Table == name {
			return artifact, true
		}
	}
	return destination.Artifact{}, false
}
