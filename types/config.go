package types

import (
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"github.com/cyfronet-fid/eosc-analyses/constants"
)

// CollectionPaths locates the documents of one collection and where its tables go
type CollectionPaths struct {
	Input  string `json:"input" mapstructure:"input" validate:"required"`
	Output string `json:"output" mapstructure:"output"`
}

// Config holds everything a conversion or analysis run needs
type Config struct {
	SchemaVersion         string                     `json:"schema_version" mapstructure:"schema_version" validate:"required"`
	InputPath             string                     `json:"input_path" mapstructure:"input_path"`
	MetadataPath          string                     `json:"metadata_path" mapstructure:"metadata_path" validate:"required"`
	ProcessedMetadataPath string                     `json:"processed_metadata_path" mapstructure:"processed_metadata_path" validate:"required"`
	NestedFields          []string                   `json:"nested_fields" mapstructure:"nested_fields" validate:"dive,required"`
	FileExtensions        []string                   `json:"file_extensions" mapstructure:"file_extensions" validate:"min=1,dive,startswith=."`
	ExcludeColumns        []string                   `json:"exclude_columns" mapstructure:"exclude_columns"`
	MaxThreads            int                        `json:"max_threads" mapstructure:"max_threads" validate:"gte=0"`
	Collections           map[string]CollectionPaths `json:"collections" mapstructure:"collections" validate:"dive"`
	Writer                WriterConfig               `json:"writer" mapstructure:"writer"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func setupValidator() {
	validateOnce.Do(func() {
		english := en.New()
		translator, _ = ut.New(english, english).GetTranslator("en")
		validate = validator.New(validator.WithRequiredStructEnabled())
		// report json names instead of go field names
		validate.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = entranslations.RegisterDefaultTranslations(validate, translator)
	})
}

// Validate fills defaults and checks the configuration
func (c *Config) Validate() error {
	if c.SchemaVersion == "" {
		c.SchemaVersion = constants.DefaultSchemaVersion
	}

	if c.NestedFields == nil {
		c.NestedFields = append([]string{}, constants.DefaultNestedFields...)
	}

	if len(c.FileExtensions) == 0 {
		c.FileExtensions = []string{constants.DocumentFileExt}
	}

	if c.ExcludeColumns == nil {
		c.ExcludeColumns = append([]string{}, constants.DefaultExcludeColumns...)
	}

	if c.Writer.Type == "" {
		c.Writer.Type = Parquet
	}

	if c.MaxThreads <= 0 {
		c.MaxThreads = constants.DefaultThreadCount
	}

	// tables of a collection default to <metadata path>/<collection>
	for name, paths := range c.Collections {
		if paths.Output == "" && c.MetadataPath != "" {
			paths.Output = filepath.Join(c.MetadataPath, name)
			c.Collections[name] = paths
		}
	}

	setupValidator()
	if err := validate.Struct(c); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return fmt.Errorf("failed to validate config: %s", err)
		}
		messages := make([]string, 0, len(validationErrors))
		for _, fieldErr := range validationErrors {
			messages = append(messages, fieldErr.Translate(translator))
		}
		return fmt.Errorf("invalid config: %s", strings.Join(messages, "; "))
	}
	return nil
}

// CollectionNames returns configured collection names in a stable order
func (c *Config) CollectionNames() []string {
	names := make([]string, 0, len(c.Collections))
	for name := range c.Collections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
