package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var showCmd = &cobra.Command{
	Use:   "show <tree-id>",
	Short: "Display a tree as an outline",
	Long: `Display a stored tree as an indented outline of page visits. The
current node is marked with * and reading times are shown per node.

Example:
  browsetree-cli show 3f2a9c1e-6d4b-4c8e-9f0a-1b2c3d4e5f60`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a := GetApp()
		showCmd := commands.NewShowTreeCommand(a.Trees, a.Env, args[0])
		tree, err := showCmd.Execute(ctx)
		if err != nil {
			return err
		}
		return commands.FormatTree(os.Stdout, tree, a.Links)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
