package protocol

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/pkg/analyzer"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Report missing metadata per column of the converted tables",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		runConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		output := filepath.Join(runConfig.ProcessedMetadataPath, constants.MissingDataReport)
		_, err := analyzer.New(runConfig.ExcludeColumns, runConfig.MaxThreads).Run(cmd.Context(), runConfig.MetadataPath, output)
		return err
	},
}
