package main

import (
	"fmt"
	"text/tabwriter"

	"promptly/internal/repository"
	"promptly/internal/service"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd(open opener) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Print the top contributors by authored prompts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := open()
			if err != nil {
				return err
			}
			defer s.close()

			ranking := service.NewRankingService(repository.NewUserRepository(s.db), s.cfg.LeaderboardDefaultLimit)
			users, err := ranking.TopContributors(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("leaderboard: %w", err)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "RANK\tUSER\tPROMPTS")
			for i, u := range users {
				fmt.Fprintf(w, "%d\t%s\t%d\n", i+1, u.Username, u.TotalPrompts)
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of contributors (0 uses LEADERBOARD_DEFAULT_LIMIT)")
	return cmd
}
