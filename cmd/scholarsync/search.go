package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var searchDatabases []string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search for papers and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSearch(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	searchCmd.Flags().StringSliceVar(&searchDatabases, "databases", nil,
		"databases to search (defaults to the configured set)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(ctx context.Context, query string) error {
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("search query cannot be empty")
	}

	cfg, logger, err := loadEnv("search")
	if err != nil {
		return err
	}

	databases := searchDatabases
	if len(databases) == 0 {
		databases = cfg.UI.SearchDatabases
	}

	backend := newBackend(cfg, logger)
	papers, err := backend.Search(ctx, query, databases)
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	if len(papers) == 0 {
		fmt.Println("No papers matched your search.")
		return nil
	}

	for _, p := range papers {
		fmt.Printf("%s\n  %s\n  %s", p.Title, p.AuthorLine(), p.PublicationDate)
		if link := p.DOIURL(); link != "" {
			fmt.Printf("  %s", link)
		}
		fmt.Printf("\n  id: %s\n\n", p.ID)
	}
	return nil
}
