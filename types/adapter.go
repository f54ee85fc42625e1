package types

type DestinationType string

const (
	Parquet DestinationType = "PARQUET"
)

// WriterConfig selects the table writer and carries its own settings
type WriterConfig struct {
	Type         DestinationType `json:"type" mapstructure:"type" validate:"required"`
	WriterConfig map[string]any  `json:"writer" mapstructure:"writer"`
}
