package protocol

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the data model descriptor with the configured nested fields",
	RunE: func(_ *cobra.Command, _ []string) error {
		config, err := readConfig()
		if err != nil {
			return err
		}
		if config.SchemaVersion == "" {
			config.SchemaVersion = constants.DefaultSchemaVersion
		}
		if config.NestedFields == nil {
			config.NestedFields = append([]string{}, constants.DefaultNestedFields...)
		}

		entity, err := resolveSchema(config)
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(entity, "", "  ")
		if err != nil {
			return err
		}
		logger.Info(string(data))
		return nil
	},
}
