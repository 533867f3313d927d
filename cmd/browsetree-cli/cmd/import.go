package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var importSource string

var importCmd = &cobra.Command{
	Use:   "import <history-file>",
	Short: "Import browser history as a tree",
	Long: `Import a browser history export as a new tree. The file is a JSON
or YAML list of entries with url, title and visitedAt; "-" reads JSON from
stdin. Every page becomes a child of the tree root, in visit order.

Examples:
  browsetree-cli import history.json --source chrome
  browsetree-cli import history.yaml --source safari`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var entries []commands.HistoryEntry
		if err := decodeInput(args[0], &entries); err != nil {
			return err
		}

		ctx := context.Background()
		a := GetApp()
		importCmd := commands.NewImportHistoryCommand(a.Trees, a.Env, importSource, entries)
		result, err := importCmd.Execute(ctx)
		if err != nil {
			return err
		}
		fmt.Println(result.Message)
		fmt.Printf("Tree: %s\n", result.TreeID)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVarP(&importSource, "source", "s", "", "browser the history comes from")
	_ = importCmd.MarkFlagRequired("source")
	rootCmd.AddCommand(importCmd)
}
