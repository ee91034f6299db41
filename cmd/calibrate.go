package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jobmate/match-service/internal/calibration"
	"jobmate/match-service/internal/db"
	"jobmate/match-service/internal/model"
	"jobmate/match-service/internal/scoring"
	"jobmate/match-service/internal/store"
)

type calibrateOutput struct {
	Before  scoring.Weights `json:"before"`
	After   scoring.Weights `json:"after"`
	Version int             `json:"version,omitempty"`
}

var calibrateCmd = &cobra.Command{
	Use:   "calibrate",
	Short: "Apply one feedback step to a weights vector",
	Long: `Apply one feedback step to a weights vector.

Without --user the vector comes from --weights (defaults when omitted) and
the result is printed. With --user the user's stored weights are updated in
place; DATABASE_URL is required.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		outcome, _ := cmd.Flags().GetString("outcome")
		accuracy, _ := cmd.Flags().GetInt("accuracy")
		factor, _ := cmd.Flags().GetString("factor")
		weightsPath, _ := cmd.Flags().GetString("weights")
		userID, _ := cmd.Flags().GetString("user")

		fb, err := model.ParseFeedback(outcome, accuracy, factor)
		if err != nil {
			return err
		}
		step := func(w scoring.Weights) scoring.Weights { return calibration.UpdateWeights(w, fb) }

		if userID != "" {
			out, err := calibrateStored(cmd.Context(), userID, step)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}

		w := calibration.ResetWeights()
		if weightsPath != "" {
			if err := readJSONFile(weightsPath, &w); err != nil {
				return err
			}
		}
		return writeJSON(cmd.OutOrStdout(), calibrateOutput{Before: w, After: step(w)})
	},
}

func init() {
	rootCmd.AddCommand(calibrateCmd)

	calibrateCmd.Flags().StringP("outcome", "o", "", "application outcome (INTERVIEW, OFFER, REJECTED, GHOSTED, WITHDRAWN, ACCEPTED)")
	calibrateCmd.Flags().IntP("accuracy", "a", 0, "how accurate the score felt, 1 to 5")
	calibrateCmd.Flags().StringP("factor", "f", "", "primary factor (SKILLS, LOCATION, SALARY, SENIORITY, COMPANY_FIT)")
	calibrateCmd.Flags().StringP("weights", "w", "", "weights JSON file")
	calibrateCmd.Flags().String("user", "", "update this user's stored weights")
	_ = calibrateCmd.MarkFlagRequired("outcome")
	_ = calibrateCmd.MarkFlagRequired("accuracy")
}

func calibrateStored(ctx context.Context, userID string, step func(scoring.Weights) scoring.Weights) (calibrateOutput, error) {
	cfg, err := loadConfig()
	if err != nil {
		return calibrateOutput{}, err
	}
	if err := cfg.ValidateDatabase(); err != nil {
		return calibrateOutput{}, fmt.Errorf("config: %w", err)
	}

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return calibrateOutput{}, fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()

	before, after, err := store.New(pool).UpdateWeights(ctx, userID, step)
	if err != nil {
		return calibrateOutput{}, err
	}
	return calibrateOutput{Before: before.Weights, After: after.Weights, Version: after.Version}, nil
}
