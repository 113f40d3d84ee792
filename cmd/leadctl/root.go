package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "leadctl",
		Short: "Operator tools for the leads API",
		Long: `leadctl runs lead file checks offline and performs maintenance
against the leads database.

Available commands:
  preview   - Normalize a CSV/XLSX/XLS file and show what an upload would accept
  reconcile - Recompute every agent's assigned lead counter`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newPreviewCmd(), newReconcileCmd())
	return root
}
