package protocol

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/types"
)

func resetSettings(t *testing.T) {
	t.Helper()
	viper.Reset()
	configPath, schemaVersion, collections = "", "", nil
	t.Cleanup(func() {
		viper.Reset()
		configPath, schemaVersion, collections = "", "", nil
	})
}

func TestLoadConfigFromSettings(t *testing.T) {
	resetSettings(t)
	input := t.TempDir()
	for _, dir := range []string{"publication", "otherresearchproduct", ".cache"} {
		require.NoError(t, os.MkdirAll(filepath.Join(input, dir), 0o755))
	}
	metadata := t.TempDir()

	viper.Set(constants.InputPath, input)
	viper.Set(constants.MetadataPath, metadata)
	viper.Set(constants.ProcessedMetadataPath, t.TempDir())
	viper.Set(constants.NestedFields, "author, pid,,")

	config, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, constants.DefaultSchemaVersion, config.SchemaVersion)
	assert.Equal(t, []string{"author", "pid"}, config.NestedFields)
	assert.Equal(t, []string{constants.DocumentFileExt}, config.FileExtensions)
	assert.Equal(t, constants.DefaultExcludeColumns, config.ExcludeColumns)
	assert.Equal(t, types.Parquet, config.Writer.Type)
	assert.Equal(t, []string{"other_rp", "publication"}, config.CollectionNames())
	assert.Equal(t, filepath.Join(input, "otherresearchproduct"), config.Collections["other_rp"].Input)
	assert.Equal(t, filepath.Join(metadata, "publication"), config.Collections["publication"].Output)
}

func TestLoadConfigCollectionPaths(t *testing.T) {
	resetSettings(t)
	software := t.TempDir()
	viper.Set(constants.InputPath, t.TempDir())
	viper.Set(constants.SoftwarePath, software)
	viper.Set(constants.MetadataPath, t.TempDir())
	viper.Set(constants.ProcessedMetadataPath, t.TempDir())

	config, err := loadConfig()
	require.NoError(t, err)

	// explicit collection paths win over the dump root listing
	assert.Equal(t, []string{"software"}, config.CollectionNames())
	assert.Equal(t, software, config.Collections["software"].Input)
}

func TestLoadConfigFile(t *testing.T) {
	resetSettings(t)
	viper.Set(constants.MetadataPath, "/from/env")
	viper.Set(constants.ProcessedMetadataPath, "/processed")

	configPath = filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(configPath, []byte(`{
		"metadata_path": "/from/file",
		"nested_fields": ["author"],
		"collections": {"dataset": {"input": "/dump/dataset"}},
		"writer": {"type": "PARQUET", "writer": {"compression": "zstd"}}
	}`), 0o644))
	schemaVersion = "2023_08"

	config, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "2023_08", config.SchemaVersion)
	assert.Equal(t, "/from/file", config.MetadataPath)
	assert.Equal(t, "/processed", config.ProcessedMetadataPath)
	assert.Equal(t, []string{"author"}, config.NestedFields)
	assert.Equal(t, filepath.Join("/from/file", "dataset"), config.Collections["dataset"].Output)
	assert.Equal(t, "zstd", config.Writer.WriterConfig["compression"])
}

func TestLoadConfigDefaults(t *testing.T) {
	resetSettings(t)
	setDefaults()

	config, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "output/metadata", config.MetadataPath)
	assert.Equal(t, "output/processed_metadata", config.ProcessedMetadataPath)
	assert.Equal(t, []string{"dataset", "other_rp", "publication", "software"}, config.CollectionNames())
	assert.Equal(t, filepath.Join("input", "other_rp"), config.Collections["other_rp"].Input)
	assert.Equal(t, filepath.Join("output/metadata", "software"), config.Collections["software"].Output)

	// settings win over the defaults
	viper.Set(constants.MetadataPath, "/metadata")
	viper.Set(constants.DatasetPath, "/dump/dataset")
	config, err = loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "/metadata", config.MetadataPath)
	assert.Equal(t, []string{"dataset"}, config.CollectionNames())
	assert.Equal(t, "/dump/dataset", config.Collections["dataset"].Input)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name     string
		settings map[string]string
	}{
		{
			name:     "missing metadata path",
			settings: map[string]string{constants.ProcessedMetadataPath: "/processed"},
		},
		{
			name: "extension without dot",
			settings: map[string]string{
				constants.MetadataPath:          "/metadata",
				constants.ProcessedMetadataPath: "/processed",
				constants.FileExtensions:        "json",
			},
		},
		{
			name: "unreadable dump root",
			settings: map[string]string{
				constants.InputPath:             "/does/not/exist",
				constants.MetadataPath:          "/metadata",
				constants.ProcessedMetadataPath: "/processed",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetSettings(t)
			for key, value := range tc.settings {
				viper.Set(key, value)
			}
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}

func TestSelectCollections(t *testing.T) {
	config := &types.Config{
		Collections: map[string]types.CollectionPaths{
			"software": {Input: "/in/software", Output: "/out/software"},
			"dataset":  {Input: "/in/dataset", Output: "/out/dataset"},
		},
	}

	all, err := selectCollections(config, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "dataset", all[0].Name)
	assert.Equal(t, "/out/software", all[1].Output)

	picked, err := selectCollections(config, []string{"software"})
	require.NoError(t, err)
	require.Len(t, picked, 1)
	assert.Equal(t, "/in/software", picked[0].Input)

	_, err = selectCollections(config, []string{"publication"})
	assert.Error(t, err)

	_, err = selectCollections(&types.Config{}, nil)
	assert.Error(t, err)
}

func TestResolveSchemaIgnoresUnknownFields(t *testing.T) {
	entity, err := resolveSchema(&types.Config{SchemaVersion: "2024_01", NestedFields: []string{"author", "nope"}})
	require.NoError(t, err)

	nested := entity.NestedFields()
	require.Len(t, nested, 1)
	assert.Equal(t, "author", nested[0].Name)

	_, err = resolveSchema(&types.Config{SchemaVersion: "1999_01"})
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	// restored by the test cleanup
	t.Setenv("EOSC_TEST_SETTING", "")
	require.NoError(t, os.Unsetenv("EOSC_TEST_SETTING"))
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("EOSC_TEST_SETTING=from-file\n"), 0o644))

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "from-file", os.Getenv("EOSC_TEST_SETTING"))

	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "missing.env")))
}
