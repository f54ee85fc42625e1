package protocol

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/pkg/loader"
	"github.com/cyfronet-fid/eosc-analyses/pkg/source"
	"github.com/cyfronet-fid/eosc-analyses/schema"
	"github.com/cyfronet-fid/eosc-analyses/types"
	"github.com/cyfronet-fid/eosc-analyses/utils"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

// collection key -> setting holding its input directory
var collectionPathKeys = map[string]string{
	constants.Dataset:     constants.DatasetPath,
	constants.Publication: constants.PublicationPath,
	constants.Software:    constants.SoftwarePath,
	constants.OtherRP:     constants.OtherRPPath,
}

// loadConfig reads and validates the run configuration
func loadConfig() (*types.Config, error) {
	config, err := readConfig()
	if err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// readConfig builds the configuration from settings, then the optional JSON
// config file and finally the command line flags. Defaults are not applied.
func readConfig() (*types.Config, error) {
	config := &types.Config{
		SchemaVersion:         viper.GetString(constants.SchemaVersion),
		InputPath:             viper.GetString(constants.InputPath),
		MetadataPath:          viper.GetString(constants.MetadataPath),
		ProcessedMetadataPath: viper.GetString(constants.ProcessedMetadataPath),
		NestedFields:          listSetting(constants.NestedFields),
		FileExtensions:        listSetting(constants.FileExtensions),
		ExcludeColumns:        listSetting(constants.ExcludeColumns),
		MaxThreads:            viper.GetInt(constants.MaxThreads),
	}

	if configPath != "" {
		if err := utils.UnmarshalFile(configPath, config); err != nil {
			return nil, err
		}
	}

	if schemaVersion != "" {
		config.SchemaVersion = schemaVersion
	}

	if len(config.Collections) == 0 {
		defaults, err := defaultCollections(config.InputPath)
		if err != nil {
			return nil, err
		}
		config.Collections = defaults
	}
	return config, nil
}

// listSetting reads a comma separated setting, nil when unset so defaults apply
func listSetting(key string) []string {
	value := strings.TrimSpace(viper.GetString(key))
	if value == "" {
		return nil
	}
	return utils.SplitAndTrim(value)
}

// defaultCollections uses the per collection path settings, falling back to the
// sub-directories of the dump root. With neither set every collection is read
// from input/<collection>.
func defaultCollections(inputRoot string) (map[string]types.CollectionPaths, error) {
	configured := map[string]types.CollectionPaths{}
	for name, key := range collectionPathKeys {
		if input := viper.GetString(key); input != "" {
			configured[name] = types.CollectionPaths{Input: input}
		}
	}
	if len(configured) > 0 {
		return configured, nil
	}
	if inputRoot == "" {
		for name := range collectionPathKeys {
			configured[name] = types.CollectionPaths{Input: filepath.Join(constants.DefaultInputRoot, name)}
		}
		return configured, nil
	}

	directories, err := source.ListCollections(inputRoot)
	if err != nil {
		return nil, err
	}
	for _, directory := range directories {
		configured[schema.NormalizeCollection(directory)] = types.CollectionPaths{
			Input: filepath.Join(inputRoot, directory),
		}
	}
	return configured, nil
}

// selectCollections returns the collections picked with --collection, every one when none was picked
func selectCollections(config *types.Config, picked []string) ([]loader.Collection, error) {
	names := config.CollectionNames()
	if len(picked) > 0 {
		for _, name := range picked {
			if _, found := config.Collections[name]; !found {
				return nil, fmt.Errorf("collection[%s] is not configured, available: %s", name, strings.Join(names, ", "))
			}
		}
		names = picked
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no collections configured, set %s or the per collection paths", constants.InputPath)
	}

	selected := make([]loader.Collection, 0, len(names))
	for _, name := range names {
		paths := config.Collections[name]
		selected = append(selected, loader.Collection{
			Name:   name,
			Input:  paths.Input,
			Output: paths.Output,
		})
	}
	return selected, nil
}

// resolveSchema applies the configured nested fields to the configured data model
func resolveSchema(config *types.Config) (*schema.EntitySchema, error) {
	entity, err := schema.Resolve(config.SchemaVersion)
	if err != nil {
		return nil, err
	}
	if unknown := entity.UnknownFields(config.NestedFields); len(unknown) > 0 {
		logger.Warnf("ignoring nested fields %v not declared by data model %s", unknown, entity.Version)
	}
	return entity.WithNested(config.NestedFields), nil
}
