package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var validateCmd = &cobra.Command{
	Use:   "validate <document>...",
	Short: "Validate tree documents",
	Long: `Check nested or flat tree documents against their JSON schema and
decode them. Nothing is stored.

Example:
  browsetree-cli validate tree.json flat.json`,
	Args:        cobra.MinimumNArgs(1),
	Annotations: map[string]string{"stores": "none"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		failed := 0
		for _, path := range args {
			data, err := readInput(path)
			if err != nil {
				return err
			}

			result, err := commands.NewValidateDocumentCommand(data).Execute(ctx)
			if err != nil {
				failed++
				fmt.Printf("%s: %v\n", path, err)
				continue
			}
			fmt.Printf("%s: valid %s tree %s (%d nodes)\n", path, result.Kind, result.TreeID, result.Nodes)
		}

		if failed > 0 {
			return fmt.Errorf("%d of %d documents invalid", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
