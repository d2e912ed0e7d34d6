package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"ssdwatch/internal/config"
	"ssdwatch/internal/extract"
	"ssdwatch/internal/matcher"
	"ssdwatch/internal/product"
)

func newInspectCommand() *cobra.Command {
	var pageURL string

	cmd := &cobra.Command{
		Use:         "inspect <saved-page.html>",
		Short:       "Run the extraction and match rules against a saved product page",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ExpandPath(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("resolve page path: %w", err)
			}
			file, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open page: %w", err)
			}
			defer file.Close()

			doc, err := goquery.NewDocumentFromReader(file)
			if err != nil {
				return fmt.Errorf("parse page %s: %w", path, err)
			}
			result := extract.FromDocument(doc, pageURL)
			record := product.Record{Title: result.Title, Price: result.Price, URL: result.URL}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Title:    %s\n", valueOrDash(record.Title))
			price := valueOrDash(record.Price)
			if sel := extract.MatchedSelector(doc); sel != "" {
				price = fmt.Sprintf("%s (via %s)", price, sel)
			}
			fmt.Fprintf(out, "Price:    %s\n", price)
			if value, ok := record.PriceValue(); ok {
				fmt.Fprintf(out, "Parsed:   %s\n", product.FormatGBP(value))
			}
			if record.URL != "" {
				fmt.Fprintf(out, "URL:      %s\n", record.URL)
			}
			if reason := matcher.Classify(record.Title); reason != "" {
				fmt.Fprintf(out, "Match:    no (%s)\n", reason)
			} else {
				fmt.Fprintln(out, "Match:    yes")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pageURL, "url", "", "Address to report for the page")
	return cmd
}

func valueOrDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
