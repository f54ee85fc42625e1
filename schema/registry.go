package schema

import (
	"fmt"
	"sort"
)

var versions = map[string]func() *EntitySchema{
	"2023_08": researchProduct202308,
	"2024_01": researchProduct202401,
}

// dump directory names that differ from the collection key used for outputs
var collectionNames = map[string]string{
	"organization":         "organisation",
	"otherresearchproduct": "other_rp",
}

// Resolve returns the research product schema of a dump version
func Resolve(version string) (*EntitySchema, error) {
	build, found := versions[version]
	if !found {
		return nil, fmt.Errorf("unknown schema version[%s], available versions: %v", version, Versions())
	}
	return build(), nil
}

func Versions() []string {
	available := make([]string, 0, len(versions))
	for version := range versions {
		available = append(available, version)
	}
	sort.Strings(available)
	return available
}

// NormalizeCollection maps a dump directory name to its collection key, unknown names pass through
func NormalizeCollection(directoryName string) string {
	if normalized, found := collectionNames[directoryName]; found {
		return normalized
	}
	return directoryName
}
