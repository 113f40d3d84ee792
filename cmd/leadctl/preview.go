package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/agentdesk/leads-api/internal/distribution"
	"github.com/agentdesk/leads-api/internal/ingest"
	"github.com/spf13/cobra"
)

type previewOptions struct {
	agents            int
	placeholderDomain string
	showRows          bool
}

func newPreviewCmd() *cobra.Command {
	opts := previewOptions{}

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Normalize a lead file without uploading it",
		Long: `Parses the file with the same rules as POST /leads/upload and prints the
accepted and rejected rows. With --agents the per-agent split is shown too.

Example:
  leadctl preview leads.csv --agents 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPreview(cmd, args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.agents, "agents", 0, "number of agents to preview the distribution for")
	cmd.Flags().StringVar(&opts.placeholderDomain, "placeholder-domain", "placeholder.com", "domain for synthesized CSV emails")
	cmd.Flags().BoolVar(&opts.showRows, "rows", true, "print accepted rows")
	return cmd
}

func runPreview(cmd *cobra.Command, path string, opts previewOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	normalizer := ingest.NewNormalizer(ingest.WithPlaceholderDomain(opts.placeholderDomain))
	result, err := normalizer.Read(cmd.Context(), filepath.Base(path), f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "accepted: %d\nrejected: %d\n", len(result.Accepted), len(result.Rejected))

	if opts.showRows && len(result.Accepted) > 0 {
		fmt.Fprintln(out)
		if err := printAccepted(out, result.Accepted); err != nil {
			return err
		}
	}

	if len(result.Rejected) > 0 {
		fmt.Fprintln(out)
		if err := printRejected(out, result.Rejected); err != nil {
			return err
		}
	}

	if opts.agents > 0 && len(result.Accepted) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "distribution over %d agents:\n", opts.agents)
		for i, n := range distribution.Shares(len(result.Accepted), opts.agents) {
			fmt.Fprintf(out, "  agent %d: %d\n", i+1, n)
		}
	}

	return nil
}

func printAccepted(w io.Writer, accepted []ingest.Candidate) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tEMAIL\tMOBILE\tNOTES")
	for _, c := range accepted {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Name, c.Email, c.Mobile, c.Notes)
	}
	return tw.Flush()
}

func printRejected(w io.Writer, rejected []ingest.Rejection) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ROW\tREASON")
	for _, r := range rejected {
		fmt.Fprintf(tw, "%d\t%s\n", r.RowNumber, r.Reason)
	}
	return tw.Flush()
}
