package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored trees, newest first",
	Long: `List every stored browsing tree with its origin kind, node count and
creation date. Free-text origin fields are never shown.

Example:
  browsetree-cli list`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		listCmd := commands.NewListTreesCommand(GetApp().Trees)
		summaries, err := listCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if len(summaries) == 0 {
			fmt.Println("No trees found")
			return nil
		}

		for _, s := range summaries {
			pinned := ""
			if s.IsPinned {
				pinned = "  pinned"
			}
			fmt.Printf("%s  %s  %-16s %4d nodes%s\n",
				s.ID, s.CreatedAt.Local().Format("2006-01-02 15:04"), s.Kind, s.NodeCount, pinned)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
