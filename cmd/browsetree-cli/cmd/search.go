package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search scored links",
	Long: `Search the links of every stored tree by URL and title.

Results are ranked by relevance using fuzzy matching.

Examples:
  browsetree-cli search tour
  browsetree-cli search pkg.go.dev`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := args[0]
		ctx := context.Background()

		a := GetApp()
		searchCmd := commands.NewSearchLinksCommand(a.Trees, a.Links, logger.Logger, query)
		results, err := searchCmd.Execute(ctx)
		if err != nil {
			return err
		}

		if len(results) == 0 {
			fmt.Println("No results found")
			return nil
		}

		for _, r := range results {
			if r.Title != "" {
				fmt.Printf("%s  %s  [%d trees]\n", r.URL, r.Title, r.Trees)
			} else {
				fmt.Printf("%s  [%d trees]\n", r.URL, r.Trees)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}
