// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/connectedpapers/internal/connected"
	"github.com/pdiddy/connectedpapers/internal/resolve"
	"github.com/pdiddy/connectedpapers/pkg/types"
)

// semanticScholarKeyFile is the secret holding the optional Semantic Scholar key.
const semanticScholarKeyFile = "semantic-scholar-api-key"

var graphCmd = &cobra.Command{
	Use:   "graph [paper-ids...]",
	Short: "Fetch the citation graph of one or more papers",
	Long: `Graph requests the citation graph for each paper and waits until it is
ready. Papers are given as Semantic Scholar ids or URLs, arXiv IDs, DOIs, or
CorpusId:N; anything other than a Semantic Scholar id is resolved first.
Status updates are printed to stderr as they arrive; the final result goes
to stdout.

Modes:
  default / --fresh   force a fresh rebuild and wait for it
  --accept-old        return a cached graph if one exists, otherwise wait
  --no-wait           report the current status once and return`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGraph,
}

func init() {
	graphCmd.Flags().Bool("fresh", false, "force a fresh graph rebuild (the default)")
	graphCmd.Flags().Bool("accept-old", false, "accept a cached graph if available")
	graphCmd.Flags().Bool("no-wait", false, "return immediately with the current status")
	graphCmd.Flags().Bool("show-papers", false, "list every paper in the graph (text format)")
	graphCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	graphCmd.Flags().String("semantic-scholar-key", "", "Semantic Scholar API key for resolving DOIs and arXiv IDs")
	graphCmd.MarkFlagsMutuallyExclusive("fresh", "accept-old", "no-wait")
	_ = viper.BindPFlag("semantic_scholar_api_key", graphCmd.Flags().Lookup("semantic-scholar-key"))

	rootCmd.AddCommand(graphCmd)
}

// graphModeOptions maps the CLI mode flags onto polling options.
func graphModeOptions(acceptOld, noWait bool) connected.PollOptions {
	switch {
	case noWait:
		return connected.PollOptions{FreshOnly: false, WaitUntilComplete: false}
	case acceptOld:
		return connected.PollOptions{FreshOnly: false, WaitUntilComplete: true}
	default:
		return connected.PollOptions{FreshOnly: true, WaitUntilComplete: true}
	}
}

func runGraph(cmd *cobra.Command, args []string) error {
	acceptOld, _ := cmd.Flags().GetBool("accept-old")
	noWait, _ := cmd.Flags().GetBool("no-wait")
	showPapers, _ := cmd.Flags().GetBool("show-papers")
	format, _ := cmd.Flags().GetString("format")
	if err := checkFormat(format); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	args, err = resolveIDs(ctx, client.Config(), args)
	if err != nil {
		return err
	}
	opts := graphModeOptions(acceptOld, noWait)

	if len(args) > 1 && opts.WaitUntilComplete {
		failed := 0
		for _, r := range client.GraphAll(ctx, args, opts.FreshOnly) {
			if r.Err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", r.PaperID, r.Err)
				failed++
				continue
			}
			if err := writeGraphResult(os.Stdout, r.PaperID, r.Response, format, showPapers); err != nil {
				return err
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d paper(s) failed", failed)
		}
		return nil
	}

	for _, id := range args {
		resp, err := watchGraph(ctx, client, id, opts, os.Stderr)
		if err != nil {
			return err
		}
		if err := writeGraphResult(os.Stdout, id, resp, format, showPapers); err != nil {
			return err
		}
	}
	return nil
}

// resolveIDs maps arXiv IDs, DOIs and paper URLs onto Semantic Scholar paper ids.
func resolveIDs(ctx context.Context, cfg types.ClientConfig, args []string) ([]string, error) {
	r := &resolve.Resolver{
		Client:    &http.Client{Timeout: cfg.Timeout},
		APIKey:    secretDefault(semanticScholarKeyFile, viper.GetString("semantic_scholar_api_key")),
		UserAgent: cfg.UserAgent,
	}
	ids := make([]string, len(args))
	for i, arg := range args {
		id, err := r.Resolve(ctx, arg)
		if err != nil {
			return nil, err
		}
		if id != arg {
			fmt.Fprintf(os.Stderr, "resolved %s -> %s\n", arg, id)
		}
		ids[i] = id
	}
	return ids, nil
}

// watchGraph ranges over the polling sequence, printing each status update
// to w, and returns the last envelope.
func watchGraph(ctx context.Context, client *connected.Client, paperID string, opts connected.PollOptions, w io.Writer) (types.GraphResponse, error) {
	fmt.Fprintf(w, "fetching graph: %s\n", paperID)
	last := types.GraphResponse{Status: types.StatusError}
	for resp, err := range client.Poll(ctx, paperID, opts) {
		if err != nil {
			return types.GraphResponse{}, err
		}
		if resp.Progress != nil {
			fmt.Fprintf(w, "  status: %s (%.0f%%)\n", resp.Status, *resp.Progress)
		} else {
			fmt.Fprintf(w, "  status: %s\n", resp.Status)
		}
		last = resp
	}
	return last, nil
}

func checkFormat(format string) error {
	switch format {
	case "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unsupported format %q: use text, json, or yaml", format)
	}
}

// graphOutput is the structured form of a result for json and yaml output.
type graphOutput struct {
	PaperID           string       `json:"paper_id" yaml:"paper_id"`
	Status            types.Status `json:"status" yaml:"status"`
	Progress          *float64     `json:"progress,omitempty" yaml:"progress,omitempty"`
	RemainingRequests *int         `json:"remaining_requests,omitempty" yaml:"remaining_requests,omitempty"`
	Graph             *types.Graph `json:"graph,omitempty" yaml:"graph,omitempty"`
}

func writeGraphResult(w io.Writer, paperID string, resp types.GraphResponse, format string, showPapers bool) error {
	g, err := resp.DecodeGraph()
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(graphOutput{paperID, resp.Status, resp.Progress, resp.RemainingRequests, g})
	case "yaml":
		data, err := yaml.Marshal(graphOutput{paperID, resp.Status, resp.Progress, resp.RemainingRequests, g})
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	}

	fmt.Fprintf(w, "Paper: %s\n", paperID)
	fmt.Fprintf(w, "Final Status: %s\n", resp.Status)
	if g == nil {
		fmt.Fprintln(w, "No graph data received")
	} else {
		fmt.Fprintf(w, "Graph contains %d papers\n", len(g.Nodes))
		fmt.Fprintf(w, "Start paper ID: %s\n", g.StartID)
		if showPapers {
			writePapers(w, g)
		}
	}
	if resp.RemainingRequests != nil {
		fmt.Fprintf(w, "Remaining API requests: %d\n", *resp.RemainingRequests)
	}
	return nil
}

func writePapers(w io.Writer, g *types.Graph) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	for i, id := range sortedNodeIDs(g) {
		p := g.Nodes[id]
		fmt.Fprintf(w, "\n%d. %s\n", i+1, p.Title)
		fmt.Fprintf(w, "   ID: %s\n", id)
		if p.Year != nil {
			fmt.Fprintf(w, "   Year: %d\n", *p.Year)
		}
		if len(p.Authors) > 0 {
			names := make([]string, 0, 3)
			for _, a := range p.Authors[:min(3, len(p.Authors))] {
				names = append(names, a.Name)
			}
			line := strings.Join(names, ", ")
			if len(p.Authors) > 3 {
				line += fmt.Sprintf(" (+ %d more)", len(p.Authors)-3)
			}
			fmt.Fprintf(w, "   Authors: %s\n", line)
		}
		if p.Venue != nil && *p.Venue != "" {
			fmt.Fprintf(w, "   Venue: %s\n", *p.Venue)
		}
	}
	fmt.Fprintln(w, strings.Repeat("=", 60))
}

// sortedNodeIDs lists nodes by path length from the start paper, then by id.
func sortedNodeIDs(g *types.Graph) []string {
	ids := make([]string, 0, len(g.Nodes))
	for id := range g.Nodes {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, func(a, b string) int {
		if c := cmp.Compare(g.Nodes[a].PathLength, g.Nodes[b].PathLength); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return ids
}
