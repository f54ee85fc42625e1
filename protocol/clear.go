package protocol

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cyfronet-fid/eosc-analyses/destination"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the tables of the selected collections",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		config, err := loadConfig()
		if err != nil {
			return err
		}
		runConfig = config
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		selected, err := selectCollections(runConfig, collections)
		if err != nil {
			return err
		}

		for _, collection := range selected {
			writer, err := destination.NewWriter(&runConfig.Writer)
			if err != nil {
				return err
			}
			options := destination.NewOptions(destination.WithOutputPath(collection.Output))
			if err := writer.Setup(cmd.Context(), collection.Name, options); err != nil {
				return fmt.Errorf("failed to set up writer for collection[%s]: %s", collection.Name, err)
			}
			if err := writer.DropCollection(cmd.Context(), collection.Name); err != nil {
				return fmt.Errorf("failed to clear collection[%s]: %w", collection.Name, err)
			}
			logger.Infof("cleared collection[%s] at %s", collection.Name, collection.Output)
		}
		return nil
	},
}
