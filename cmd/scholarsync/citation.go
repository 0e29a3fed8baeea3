package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/scholarsync/scholarsync/internal/domain"
)

var citationFormat string

var citationCmd = &cobra.Command{
	Use:   "citation <paper-id>",
	Short: "Generate a citation for a paper",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCitation(cmd.Context(), args[0])
	},
}

func init() {
	citationCmd.Flags().StringVar(&citationFormat, "format", string(domain.CitationAPA),
		"citation format (APA, MLA, Chicago, Harvard, IEEE, BibTeX)")
	rootCmd.AddCommand(citationCmd)
}

func runCitation(ctx context.Context, paperID string) error {
	format := domain.CitationFormat(citationFormat)
	if !domain.IsValidCitationFormat(format) {
		return fmt.Errorf("unsupported citation format: %s", citationFormat)
	}

	cfg, logger, err := loadEnv("citation")
	if err != nil {
		return err
	}

	backend := newBackend(cfg, logger)
	citation, err := backend.Citation(ctx, paperID, format)
	if err != nil {
		return fmt.Errorf("generate citation: %w", err)
	}

	fmt.Println(citation)
	return nil
}
