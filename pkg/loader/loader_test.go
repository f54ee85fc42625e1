package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/destination"
	pq "github.com/cyfronet-fid/eosc-analyses/destination/parquet"
	"github.com/cyfronet-fid/eosc-analyses/schema"
	"github.com/cyfronet-fid/eosc-analyses/types"
)

var testDocuments = map[string][]string{
	"part-0.json": {
		`{"id":"X","type":"publication","publisher":"P","author":[{"fullname":"A"},{"fullname":"B"}],"maintitle":"First"}`,
		`{"id":"Y","type":"dataset"}`,
	},
	"nested/deeper/part-1.json": {
		`{"id":"Z","indicator":{"usageCounts":{"views":"10","downloads":"2"}},"language":{"code":"eng","label":"English"}}`,
		`not json`,
		``,
		`{"type":"software"}`,
		`{"id":"W","author":"Somebody","keywords":["k1","k2"]}`,
	},
	"notes.txt": {"ignored"},
}

func writeDocuments(t *testing.T, root string, documents map[string][]string) {
	t.Helper()
	for name, lines := range documents {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	}
}

func newTestLoader(t *testing.T, extensions ...string) *Loader {
	t.Helper()
	entity, err := schema.Resolve("2024_01")
	require.NoError(t, err)
	nested := append([]string{}, constants.DefaultNestedFields...)
	nested = append(nested, "keywords")
	return New(entity.WithNested(nested), destination.Factory(&types.WriterConfig{Type: types.Parquet}), extensions...)
}

func readTable(t *testing.T, output, collection, table string) *pq.TableData {
	t.Helper()
	data, err := pq.ReadFile(filepath.Join(output, pq.ArtifactName(collection, table)))
	require.NoError(t, err)
	return data
}

// values returns the cells of a column, row order preserved
func values(t *testing.T, data *pq.TableData, column string) []any {
	t.Helper()
	idx := data.ColumnIndex(column)
	require.GreaterOrEqual(t, idx, 0, "column %s missing", column)
	cells := make([]any, 0, len(data.Rows))
	for _, row := range data.Rows {
		cells = append(cells, row[idx])
	}
	return cells
}

func TestRun(t *testing.T) {
	input := t.TempDir()
	output := filepath.Join(t.TempDir(), "software")
	writeDocuments(t, input, testDocuments)

	report, err := newTestLoader(t).Run(context.Background(), Collection{Name: "software", Input: input, Output: output})
	require.NoError(t, err)

	assert.Equal(t, 2, report.FilesDiscovered)
	assert.Equal(t, 6, report.Lines)
	assert.Equal(t, 4, report.Records)
	assert.Equal(t, 1, report.DecodeErrors)
	assert.Equal(t, 1, report.ValidationErrors)
	assert.Equal(t, 2, report.Skipped())
	assert.Equal(t, 1, report.ShapeWarnings)
	assert.Empty(t, report.FilesFailed)
	assert.Len(t, report.ErrorSamples, 2)
	assert.FileExists(t, filepath.Join(output, "software_report.json"))

	t.Run("one primary row per record", func(t *testing.T) {
		primary := readTable(t, output, "software", constants.PrimaryTable)
		assert.ElementsMatch(t, []any{"X", "Y", "Z", "W"}, values(t, primary, "id"))
		assert.Equal(t, -1, primary.ColumnIndex("author"))
		assert.Equal(t, -1, primary.ColumnIndex("rp_id"))
	})

	t.Run("no omission for structured nested fields", func(t *testing.T) {
		entity := newTestLoader(t).schema
		for _, field := range entity.NestedFields() {
			if !field.Type.IsStructured() {
				continue
			}
			data := readTable(t, output, "software", field.Name)
			ids := map[any]bool{}
			for _, id := range values(t, data, constants.RPID) {
				ids[id] = true
			}
			for _, id := range []string{"X", "Y", "Z", "W"} {
				assert.True(t, ids[id], "table %s has no row for %s", field.Name, id)
			}
		}
	})

	t.Run("expansion", func(t *testing.T) {
		author := readTable(t, output, "software", "author")
		fullnames := []any{}
		for idx, id := range values(t, author, constants.RPID) {
			if id == "X" {
				fullnames = append(fullnames, values(t, author, "fullname")[idx])
			}
		}
		assert.Equal(t, []any{"A", "B"}, fullnames)
	})

	t.Run("placeholder", func(t *testing.T) {
		indicator := readTable(t, output, "software", "indicator")
		rpIDs := values(t, indicator, constants.RPID)
		for idx, id := range rpIDs {
			if id != "Y" {
				continue
			}
			assert.Nil(t, values(t, indicator, "bipIndicators")[idx])
			assert.Nil(t, values(t, indicator, "usageCounts")[idx])
			assert.Equal(t, "dataset", values(t, indicator, constants.RPType)[idx])
			assert.Nil(t, values(t, indicator, constants.RPPublisher)[idx])
		}
		assert.Len(t, rpIDs, 4)
	})

	t.Run("scalar fallback", func(t *testing.T) {
		author := readTable(t, output, "software", "author")
		wrapped := values(t, author, "author")
		rpIDs := values(t, author, constants.RPID)
		for idx, id := range rpIDs {
			if id == "W" {
				assert.Equal(t, "Somebody", wrapped[idx])
			} else {
				assert.Nil(t, wrapped[idx])
			}
		}

		keywords := readTable(t, output, "software", "keywords")
		assert.Len(t, keywords.Rows, 5)
	})
}

func TestRunIsIdempotent(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeDocuments(t, input, testDocuments)
	l := newTestLoader(t)
	collection := Collection{Name: "dataset", Input: input, Output: output}

	first, err := l.Run(context.Background(), collection)
	require.NoError(t, err)
	second, err := l.Run(context.Background(), collection)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	require.Equal(t, len(first.Tables), len(second.Tables))
	for _, artifact := range first.Tables {
		again, found := second.Table(artifact.Table)
		require.True(t, found, artifact.Table)
		assert.Equal(t, artifact.Rows, again.Rows, artifact.Table)
		assert.Equal(t, artifact.Fingerprint, again.Fingerprint, artifact.Table)
	}
}

func TestRunDiscoveryError(t *testing.T) {
	output := t.TempDir()
	_, err := newTestLoader(t).Run(context.Background(), Collection{
		Name:   "software",
		Input:  filepath.Join(t.TempDir(), "missing"),
		Output: output,
	})
	require.Error(t, err)

	var discoveryErr *DiscoveryError
	assert.True(t, errors.As(err, &discoveryErr))

	entries, err := os.ReadDir(output)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunWriteError(t *testing.T) {
	input := t.TempDir()
	writeDocuments(t, input, testDocuments)
	outputRoot := t.TempDir()
	occupied := filepath.Join(outputRoot, "publication")
	require.NoError(t, os.WriteFile(occupied, []byte("not a directory"), 0o644))

	l := newTestLoader(t)
	_, err := l.Run(context.Background(), Collection{Name: "publication", Input: input, Output: occupied})
	require.Error(t, err)

	var writeErr *WriteError
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, "publication", writeErr.Collection)

	reports, err := l.RunAll(context.Background(), []Collection{
		{Name: "publication", Input: input, Output: occupied},
		{Name: "software", Input: input, Output: filepath.Join(outputRoot, "software")},
	})
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	require.Len(t, merr.Errors, 1)
	assert.True(t, errors.As(merr.Errors[0], &writeErr))

	require.Len(t, reports, 1)
	assert.Equal(t, "software", reports[0].Collection)
	assert.Equal(t, 4, reports[0].Records)
	assert.FileExists(t, filepath.Join(outputRoot, "software", "software_one_level_data.parquet"))
}

func TestRunRecordsFailedFiles(t *testing.T) {
	input := t.TempDir()
	output := t.TempDir()
	writeDocuments(t, input, map[string][]string{"part-0.json": testDocuments["part-0.json"]})
	corrupt := filepath.Join(input, "part-1.json.gz")
	require.NoError(t, os.WriteFile(corrupt, []byte("not gzip"), 0o644))

	report, err := newTestLoader(t, ".json", ".json.gz").Run(context.Background(), Collection{Name: "dataset", Input: input, Output: output})
	require.NoError(t, err)

	assert.Equal(t, 2, report.FilesDiscovered)
	assert.Equal(t, []string{corrupt}, report.FilesFailed)
	assert.Equal(t, 2, report.Records)
	assert.FileExists(t, filepath.Join(output, "dataset_report.json"))

	primary := readTable(t, output, "dataset", constants.PrimaryTable)
	assert.ElementsMatch(t, []any{"X", "Y"}, values(t, primary, "id"))
}

func TestRunAllContinuesAfterFailure(t *testing.T) {
	input := t.TempDir()
	writeDocuments(t, input, testDocuments)
	outputRoot := t.TempDir()

	collections := []Collection{
		{Name: "publication", Input: filepath.Join(input, "missing"), Output: filepath.Join(outputRoot, "publication")},
		{Name: "software", Input: input, Output: filepath.Join(outputRoot, "software")},
	}

	reports, err := newTestLoader(t).RunAll(context.Background(), collections)
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 1)

	require.Len(t, reports, 1)
	assert.Equal(t, "software", reports[0].Collection)
	assert.FileExists(t, filepath.Join(outputRoot, "software", "software_one_level_data.parquet"))
}

func TestRunAllCancelled(t *testing.T) {
	input := t.TempDir()
	writeDocuments(t, input, testDocuments)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reports, err := newTestLoader(t).RunAll(ctx, []Collection{{Name: "software", Input: input, Output: t.TempDir()}})
	assert.Empty(t, reports)
	assert.ErrorIs(t, err, context.Canceled)
}
