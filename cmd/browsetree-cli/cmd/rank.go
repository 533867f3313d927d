package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"browsetree/internal/application/commands"
)

var (
	rankLimit int
	rankAsOf  string
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank links by clustering score",
	Long: `Rank every scored link across all stored trees by descending
clustering score: reading time, visits and interaction density.

Examples:
  browsetree-cli rank
  browsetree-cli rank --limit 50 --as-of 2024-03-01T12:00:00Z`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(commands.ModeShow)
	},
}

var evictCmd = &cobra.Command{
	Use:   "evict",
	Short: "List links in eviction order",
	Long: `List scored links in the order they should be dropped: pages whose
tab is closed first, then by ascending removal score.

Example:
  browsetree-cli evict --limit 10`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRank(commands.ModeEvict)
	},
}

var scoreCmd = &cobra.Command{
	Use:   "score <url>",
	Short: "Show the aggregated score of a URL",
	Long: `Fold the scores of one URL across every stored tree and print the
result.

Example:
  browsetree-cli score https://go.dev/doc/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(rankAsOf)
		if err != nil {
			return err
		}

		ctx := context.Background()
		scoreCmd := commands.NewLinkScoreCommand(GetApp().Trees, logger.Logger, args[0], asOf)
		ls, err := scoreCmd.Execute(ctx)
		if err != nil {
			return err
		}

		s := ls.Score
		state := "open"
		if s.IsClosed() {
			state = "closed"
		}
		fmt.Printf("%s\n", ls.URL)
		fmt.Printf("  link:         %s\n", ls.Link)
		fmt.Printf("  trees:        %d\n", ls.Trees)
		fmt.Printf("  state:        %s\n", state)
		fmt.Printf("  visits:       %d\n", s.VisitCount)
		fmt.Printf("  reading time: %s\n", commands.FormatSeconds(s.ReadingTimeToLastEvent))
		fmt.Printf("  total:        %.4f\n", s.Total(asOf))
		fmt.Printf("  clustering:   %.4f\n", ls.Clustering)
		fmt.Printf("  removal:      %.4f\n", ls.Removal)
		return nil
	},
}

func runRank(mode commands.RankMode) error {
	asOf, err := parseAsOf(rankAsOf)
	if err != nil {
		return err
	}

	ctx := context.Background()
	a := GetApp()
	rankCmd := commands.NewRankLinksCommand(a.Trees, a.Links, logger.Logger, mode, rankLimit, asOf)
	ranked, err := rankCmd.Execute(ctx)
	if err != nil {
		return err
	}

	if len(ranked) == 0 {
		fmt.Println("No scored links")
		return nil
	}

	for i, r := range ranked {
		closed := ""
		if r.Closed {
			closed = "  closed"
		}
		label := r.URL
		if label == "" {
			label = r.Link.String()
		}
		fmt.Printf("%3d. %10.4f  %s  (%d visits, %s)%s\n",
			i+1, r.Value, label, r.VisitCount, commands.FormatSeconds(r.ReadingTime), closed)
	}
	return nil
}

func parseAsOf(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: %w", s, err)
	}
	return t, nil
}

func init() {
	for _, c := range []*cobra.Command{rankCmd, evictCmd} {
		c.Flags().IntVarP(&rankLimit, "limit", "n", 20, "number of links to show, 0 for all")
	}
	for _, c := range []*cobra.Command{rankCmd, evictCmd, scoreCmd} {
		c.Flags().StringVar(&rankAsOf, "as-of", "", "score as of this RFC 3339 time instead of now")
	}
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(evictCmd)
	rootCmd.AddCommand(scoreCmd)
}
