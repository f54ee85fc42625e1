package protocol

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/cyfronet-fid/eosc-analyses/constants"
	"github.com/cyfronet-fid/eosc-analyses/pkg/source"
	"github.com/cyfronet-fid/eosc-analyses/utils/logger"
)

// CollectionSummary is what discover reports for one collection
type CollectionSummary struct {
	Name    string   `json:"name"`
	Input   string   `json:"input"`
	Files   int      `json:"files"`
	Skipped []string `json:"skipped,omitempty"`
	Error   string   `json:"error,omitempty"`
}

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List the configured collections and their document files",
	RunE: func(_ *cobra.Command, _ []string) error {
		config, err := readConfig()
		if err != nil {
			return err
		}
		extensions := config.FileExtensions
		if len(extensions) == 0 {
			extensions = []string{constants.DocumentFileExt}
		}

		selected, err := selectCollections(config, collections)
		if err != nil {
			return err
		}

		summaries := make([]CollectionSummary, 0, len(selected))
		for _, collection := range selected {
			summary := CollectionSummary{Name: collection.Name, Input: collection.Input}
			listing, err := source.Discover(collection.Input, extensions)
			if err != nil {
				// reported, other collections are still listed
				summary.Error = err.Error()
			} else {
				summary.Files = listing.Count()
				summary.Skipped = listing.Skipped()
			}
			summaries = append(summaries, summary)
		}

		data, err := json.MarshalIndent(summaries, "", "  ")
		if err != nil {
			return err
		}
		logger.Info(string(data))
		return nil
	},
}
