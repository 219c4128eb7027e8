package main

import (
	"errors"

	"freelance-match/internal/app"
	"freelance-match/internal/database/migration"
	"freelance-match/internal/database/seeder"

	"github.com/spf13/cobra"
)

var recalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Rescore every pending application of a project and persist the results",
	RunE: func(cmd *cobra.Command, _ []string) error {
		projectID, err := parseIDFlag(cmd, "project")
		if err != nil {
			return err
		}
		return withContainer(cmd.Context(), func(c *app.Container) error {
			sum, err := c.Ranking.Recalculate(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), sum)
		})
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Print the current ranking of a project's pending applications",
	RunE: func(cmd *cobra.Command, _ []string) error {
		projectID, err := parseIDFlag(cmd, "project")
		if err != nil {
			return err
		}
		topN, err := cmd.Flags().GetInt("top")
		if err != nil {
			return err
		}
		return withContainer(cmd.Context(), func(c *app.Container) error {
			results, err := c.Ranking.RankApplicants(cmd.Context(), projectID, topN)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), results)
		})
	},
}

var explainCmd = &cobra.Command{
	Use:   "explain",
	Short: "Show the score breakdown of a single application",
	RunE: func(cmd *cobra.Command, _ []string) error {
		appID, err := parseIDFlag(cmd, "application")
		if err != nil {
			return err
		}
		return withContainer(cmd.Context(), func(c *app.Container) error {
			res, err := c.Ranking.ExplainApplication(cmd.Context(), appID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		})
	},
}

var evaluateDesignsCmd = &cobra.Command{
	Use:   "evaluate-designs",
	Short: "Score and rank the submitted designs of a project's shortlist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		projectID, err := parseIDFlag(cmd, "project")
		if err != nil {
			return err
		}
		return withContainer(cmd.Context(), func(c *app.Container) error {
			if c.Designs == nil {
				return errors.New("design evaluation is disabled: set CLIP_ENDPOINT")
			}
			evals, err := c.Designs.EvaluateShortlist(cmd.Context(), projectID)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), evals)
		})
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate-status",
	Short: "Print the state of embedded schema migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(c *app.Container) error {
			return migration.Status(cmd.Context(), c.DB.SQLDB())
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the demo marketplace (projects, developers, applications)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withContainer(cmd.Context(), func(c *app.Container) error {
			if err := (seeder.Runner{Seeders: seeder.Defaults(), Logger: c.Logger}).Run(cmd.Context(), c.DB); err != nil {
				return err
			}
			return nil
		})
	},
}

func init() {
	recalculateCmd.Flags().String("project", "", "project id")
	_ = recalculateCmd.MarkFlagRequired("project")

	rankCmd.Flags().String("project", "", "project id")
	rankCmd.Flags().Int("top", 0, "return only the top N applicants (0 = all)")
	_ = rankCmd.MarkFlagRequired("project")

	explainCmd.Flags().String("application", "", "application id")
	_ = explainCmd.MarkFlagRequired("application")

	evaluateDesignsCmd.Flags().String("project", "", "project id")
	_ = evaluateDesignsCmd.MarkFlagRequired("project")

	rootCmd.AddCommand(recalculateCmd, rankCmd, explainCmd, evaluateDesignsCmd, migrateStatusCmd, seedCmd)
}
