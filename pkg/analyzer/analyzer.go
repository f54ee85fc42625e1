package analyzer

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/moby/sys/atomicwriter"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/destination/parquet"
	"github.com/cyfronet-fid/eosc-analyses/utils"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

var csvHeader = []string{
	"file_name",
	"column_name",
	"total_count",
	"existing_count",
	"missing_count",
	"missing_percentage",
	"records_total",
	"records_missing",
	"records_missing_percentage",
}

// ColumnStats is the presence summary of one column of one table
type ColumnStats struct {
	FileName          string  `json:"file_name"`
	ColumnName        string  `json:"column_name"`
	TotalCount        int     `json:"total_count"`
	ExistingCount     int     `json:"existing_count"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
	// record level: rows grouped by rp_id (child tables) or id (primary table)
	RecordsTotal             int     `json:"records_total"`
	RecordsMissing           int     `json:"records_missing"`
	RecordsMissingPercentage float64 `json:"records_missing_percentage"`
}

type Analyzer struct {
	excludeColumns []string
	threads        int
}

func New(excludeColumns []string, threads int) *Analyzer {
	if threads <= 0 {
		threads = constants.DefaultThreadCount
	}
	return &Analyzer{
		excludeColumns: excludeColumns,
		threads:        threads,
	}
}

// Run analyzes every table under metadataRoot and writes the combined CSV report to outputPath
func (a *Analyzer) Run(ctx context.Context, metadataRoot, outputPath string) ([]ColumnStats, error) {
	stats, err := a.Analyze(ctx, metadataRoot)
	if err != nil {
		return nil, err
	}
	if err := WriteCSV(stats, outputPath); err != nil {
		return nil, err
	}
	logger.Infof("missing metadata report of %d columns saved to %s", len(stats), outputPath)
	return stats, nil
}

// Analyze reads the parquet files below root concurrently. Results keep the
// lexical order of file paths.
func (a *Analyzer) Analyze(ctx context.Context, root string) ([]ColumnStats, error) {
	files, err := listTables(root)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no %s files found under %s", constants.ParquetFileExt, root)
	}

	results := make([][]ColumnStats, len(files))
	err = utils.Concurrent(ctx, files, a.threads, func(_ context.Context, file string, idx int) error {
		logger.Infof("processing %s", file)
		stats, err := a.AnalyzeFile(file)
		if err != nil {
			return err
		}
		results[idx] = stats
		logger.Debugf("%s ended", file)
		return nil
	})
	if err != nil {
		return nil, err
	}

	combined := []ColumnStats{}
	for _, stats := range results {
		combined = append(combined, stats...)
	}
	return combined, nil
}

// AnalyzeFile computes the presence of every non excluded column of one table
func (a *Analyzer) AnalyzeFile(path string) ([]ColumnStats, error) {
	data, err := parquet.ReadFile(path)
	if err != nil {
		return nil, err
	}

	keyIndex := data.ColumnIndex(constants.RPID)
	if keyIndex < 0 {
		keyIndex = data.ColumnIndex(constants.RecordID)
	}

	fileName := filepath.Base(path)
	stats := []ColumnStats{}
	for columnIndex, column := range data.Columns {
		if utils.ExistInArray(a.excludeColumns, column) {
			continue
		}

		columnStats := ColumnStats{
			FileName:   fileName,
			ColumnName: column,
			TotalCount: len(data.Rows),
		}

		// record key -> has a present value in any of its rows
		present := map[any]bool{}
		records := 0
		for rowIndex, row := range data.Rows {
			missing := IsMissing(row[columnIndex])
			if missing {
				columnStats.MissingCount++
			}

			var key any = rowIndex
			if keyIndex >= 0 {
				key = row[keyIndex]
			}
			if _, seen := present[key]; !seen {
				present[key] = false
				records++
			}
			present[key] = present[key] || !missing
		}

		columnStats.ExistingCount = columnStats.TotalCount - columnStats.MissingCount
		columnStats.MissingPercentage = percentage(columnStats.MissingCount, columnStats.TotalCount)
		columnStats.RecordsTotal = records
		for _, found := range present {
			if !found {
				columnStats.RecordsMissing++
			}
		}
		columnStats.RecordsMissingPercentage = percentage(columnStats.RecordsMissing, columnStats.RecordsTotal)
		stats = append(stats, columnStats)
	}
	return stats, nil
}

// IsMissing is true for nulls, blank strings and JSON texts without any present value
// such as [], {} or {"a":null}
func IsMissing(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return true
		}
		if !strings.HasPrefix(trimmed, "[") && !strings.HasPrefix(trimmed, "{") {
			return false
		}
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err != nil {
			return false
		}
		return !hasPresentValue(decoded)
	default:
		return false
	}
}

func hasPresentValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		for _, item := range v {
			if hasPresentValue(item) {
				return true
			}
		}
		return false
	case map[string]any:
		for _, item := range v {
			if hasPresentValue(item) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

func listTables(root string) ([]string, error) {
	files := []string{}
	suffix := "." + constants.ParquetFileExt
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), suffix) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tables under %s: %s", root, err)
	}
	sort.Strings(files)
	return files, nil
}

// WriteCSV replaces path with the report in one step
func WriteCSV(stats []ColumnStats, path string) error {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}
	for _, one := range stats {
		record := []string{
			one.FileName,
			one.ColumnName,
			strconv.Itoa(one.TotalCount),
			strconv.Itoa(one.ExistingCount),
			strconv.Itoa(one.MissingCount),
			strconv.FormatFloat(one.MissingPercentage, 'f', 4, 64),
			strconv.Itoa(one.RecordsTotal),
			strconv.Itoa(one.RecordsMissing),
			strconv.FormatFloat(one.RecordsMissingPercentage, 'f', 4, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to encode csv: %s", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for %s: %s", path, err)
	}
	if err := atomicwriter.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file[%s]: %s", path, err)
	}
	return nil
}
