package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var (
	exportFormat    string
	exportAnonymize bool
	exportOutput    string
)

var exportCmd = &cobra.Command{
	Use:   "export <tree-id>",
	Short: "Export a tree as JSON",
	Long: `Export a stored tree in its nested or flat JSON form. Anonymized
exports drop every free-text origin field.

Examples:
  browsetree-cli export 3f2a9c1e-6d4b-4c8e-9f0a-1b2c3d4e5f60
  browsetree-cli export 3f2a9c1e-6d4b-4c8e-9f0a-1b2c3d4e5f60 --format flat --anonymize -o tree.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		a := GetApp()
		exportCmd := commands.NewExportTreeCommand(a.Trees, a.Env, args[0], commands.ExportFormat(exportFormat), exportAnonymize)
		data, err := exportCmd.Execute(ctx)
		if err != nil {
			return err
		}
		data = append(data, '\n')

		if exportOutput == "" || exportOutput == "-" {
			_, err = os.Stdout.Write(data)
			return err
		}
		if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOutput, err)
		}
		fmt.Printf("Exported tree %s to %s\n", args[0], exportOutput)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", string(commands.FormatNested), "document form: nested or flat")
	exportCmd.Flags().BoolVar(&exportAnonymize, "anonymize", false, "strip free-text origin fields")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
