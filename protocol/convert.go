package protocol

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cyfronet-fid/eosc-analyses/destination"
	"github.com/cyfronet-fid/eosc-analyses/pkg/loader"
	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"

	// registered writers
	_ "github.com/cyfronet-fid/eosc-analyses/destination/parquet"
)

var runConfig *types.Config

// convertCmd flattens the selected collections into tables
var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Flatten research product documents into parquet tables",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		runConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		entity, err := resolveSchema(runConfig)
		if err != nil {
			return err
		}

		selected, err := selectCollections(runConfig, collections)
		if err != nil {
			return err
		}

		nested := entity.NestedFields()
		logger.Infof("converting %d collections with data model %s, %d nested fields", len(selected), entity.Version, len(nested))

		start := time.Now()
		l := loader.New(entity, destination.Factory(&runConfig.Writer), runConfig.FileExtensions...)
		reports, err := l.RunAll(cmd.Context(), selected)

		records, skipped := 0, 0
		for _, report := range reports {
			records += report.Records
			skipped += report.Skipped()
		}
		logger.Infof("converted %d/%d collections in %s: %d records, %d skipped lines",
			len(reports), len(selected), time.Since(start).Round(time.Millisecond), records, skipped)

		if err != nil {
			return fmt.Errorf("conversion failed: %s", err)
		}
		return nil
	},
}
