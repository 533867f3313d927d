package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"browsetree/internal/adapters/clock"
	"browsetree/internal/application/commands"
)

var replayShow bool

var replayCmd = &cobra.Command{
	Use:   "replay <script-file>",
	Short: "Replay a scripted browsing session",
	Long: `Replay a recorded session against a fresh tree and store the result.
The script is JSON or YAML with an origin, a start time and a list of
steps such as navigate, back, forward, startReading and closeTab. Time
only moves when a step sets "at".

Examples:
  browsetree-cli replay session.yaml
  browsetree-cli --ephemeral replay session.json --show`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var script commands.Script
		if err := decodeInput(args[0], &script); err != nil {
			return err
		}

		ctx := context.Background()
		a := GetApp()
		replayCmd := commands.NewReplayCommand(a.Trees, a.Env, clock.NewManual(time.Time{}), script)
		result, err := replayCmd.Execute(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("Replayed tree %s: %d nodes, %d scored links, current %s\n",
			result.TreeID, result.Nodes, result.Scored, result.Current)
		if replayShow {
			return commands.FormatTree(os.Stdout, result.Tree, a.Links)
		}
		return nil
	},
}

func init() {
	replayCmd.Flags().BoolVar(&replayShow, "show", false, "print the resulting outline")
	rootCmd.AddCommand(replayCmd)
}
