// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var usageCmd = &cobra.Command{
	Use:   "usage",
	Short: "Show remaining API usage and free-access papers",
	Long: `Usage reports how many graph requests the API key has left and lists the
papers whose graphs can be fetched without consuming quota.`,
	RunE: runUsage,
}

func init() {
	usageCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	rootCmd.AddCommand(usageCmd)
}

// usageReport is the structured form of the usage output.
type usageReport struct {
	RemainingUses    int      `json:"remaining_uses" yaml:"remaining_uses"`
	FreeAccessPapers []string `json:"free_access_papers" yaml:"free_access_papers"`
}

func runUsage(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	remaining, err := client.RemainingUsages(ctx)
	if err != nil {
		return err
	}
	papers, err := client.FreeAccessPapers(ctx)
	if err != nil {
		return err
	}

	return writeUsage(os.Stdout, usageReport{RemainingUses: remaining, FreeAccessPapers: papers}, format)
}

func writeUsage(w io.Writer, r usageReport, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "yaml":
		data, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "Remaining uses count: %d\n", r.RemainingUses)
	fmt.Fprintf(w, "Free access papers: %d\n", len(r.FreeAccessPapers))
	for _, id := range r.FreeAccessPapers {
		fmt.Fprintf(w, "  %s\n", id)
	}
	return nil
}
