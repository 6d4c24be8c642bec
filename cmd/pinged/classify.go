package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/johncpakin/pinged/pkg/mediaurl"
)

type classification struct {
	URL        string              `json:"url"`
	Embeddable bool                `json:"embeddable"`
	Media      *mediaurl.Reference `json:"media,omitempty"`
	EmbedURL   string              `json:"embed_url,omitempty"`
	Vertical   bool                `json:"vertical,omitempty"`
}

var embedParent string

var classifyCmd = &cobra.Command{
	Use:   "classify URL...",
	Short: "Affiche la classification YouTube/Twitch de chaque URL",
	Args:  cobra.MinimumNArgs(1),
	// Pas besoin de config ni d'infra
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, raw := range args {
			if err := enc.Encode(classify(raw, embedParent)); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	classifyCmd.Flags().StringVar(&embedParent, "parent", "localhost", "domaine parent des embeds Twitch")
}

func classify(raw, parent string) classification {
	c := classification{URL: raw}
	if ref, ok := mediaurl.Classify(raw); ok {
		c.Embeddable = true
		c.Media = &ref
		c.EmbedURL = ref.EmbedURL(parent)
		c.Vertical = ref.Vertical()
	}
	return c
}
