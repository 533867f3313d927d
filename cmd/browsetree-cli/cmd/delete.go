package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <tree-id>",
	Short: "Delete a stored tree",
	Long: `Delete a browsing tree. Its scores stop counting towards link
rankings. Link records, frecency and daily scores are kept.

Warning: This operation cannot be undone.

Example:
  browsetree-cli delete 3f2a9c1e-6d4b-4c8e-9f0a-1b2c3d4e5f60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		deleteCmd := commands.NewDeleteTreeCommand(GetApp().Trees, args[0])
		if err := deleteCmd.Execute(ctx); err != nil {
			return err
		}
		fmt.Printf("Deleted tree %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
