package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"jobmate/match-service/internal/jobparse"
	"jobmate/match-service/internal/match"
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/scoring"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a profile against a job from local JSON files",
	Long: `Score a profile against a job without touching the database.

--job takes a structured job; --posting takes a raw job board posting
(title, description, salaryMin...) that is parsed first. Exactly one of
the two is required. "-" reads from stdin.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		profilePath, _ := cmd.Flags().GetString("profile")
		jobPath, _ := cmd.Flags().GetString("job")
		postingPath, _ := cmd.Flags().GetString("posting")
		weightsPath, _ := cmd.Flags().GetString("weights")

		if (jobPath == "") == (postingPath == "") {
			return fmt.Errorf("exactly one of --job or --posting is required")
		}

		var profile model.Profile
		if err := readJSONFile(profilePath, &profile); err != nil {
			return err
		}

		var job model.Job
		if jobPath != "" {
			if err := readJSONFile(jobPath, &job); err != nil {
				return err
			}
		} else {
			var p model.Posting
			if err := readJSONFile(postingPath, &p); err != nil {
				return err
			}
			job = jobparse.FromPosting(p)
		}

		weights := scoring.None()
		if weightsPath != "" {
			w := scoring.DefaultWeights()
			if err := readJSONFile(weightsPath, &w); err != nil {
				return err
			}
			weights = scoring.Some(w)
		}

		svc := match.NewService(nil, nil, scoring.NewScorer(time.Now), nil)
		res, err := svc.ScoreAdHoc(profile, job, weights)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), res)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("profile", "p", "", "candidate profile JSON file")
	scoreCmd.Flags().String("job", "", "structured job JSON file")
	scoreCmd.Flags().String("posting", "", "raw job board posting JSON file")
	scoreCmd.Flags().StringP("weights", "w", "", "scoring weights JSON file (defaults when omitted)")
	_ = scoreCmd.MarkFlagRequired("profile")
}
