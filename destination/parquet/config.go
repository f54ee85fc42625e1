package parquet

import "fmt"

type Config struct {
	// Compression codec of written files: snappy (default), gzip, zstd or none
	Compression string `json:"compression,omitempty"`
}

func (c *Config) Validate() error {
	switch c.Compression {
	case "":
		c.Compression = "snappy"
	case "snappy", "gzip", "zstd", "none":
	default:
		return fmt.Errorf("unsupported compression[%s]", c.Compression)
	}
	return nil
}
