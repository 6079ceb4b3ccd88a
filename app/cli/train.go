package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"caseAssist/business/recommend"
	"caseAssist/domain"
	psqlRepo "caseAssist/internal/repository/postgres"
	"caseAssist/pkg/database"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// ErrModelExists is returned when train finds an active model already deployed.
var ErrModelExists = errors.New("an active model already exists; retrain through POST /api/v1/models/retrain")

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train the initial model from stored case outcomes",
	Long: `Trains and deploys the first model from the stored case outcomes.

Run it before starting the server: the server loads the active model at startup
and owns every retrain after that. train refuses to run once an active model
exists, since a second process would bypass the server's single-run gate.`,
	RunE: runTrain,
}

func init() {
	rootCmd.AddCommand(trainCmd)
}

func runTrain(cmd *cobra.Command, _ []string) error {
	cfg, db, err := openDB(&domain.CaseOutcome{}, &domain.ModelArtifact{})
	if err != nil {
		return err
	}
	defer database.Close(db)

	engineCfg, err := recommend.FromEnv(cfg.Recommend)
	if err != nil {
		return err
	}
	artifacts := psqlRepo.NewModelArtifactRepository(db)
	engine, err := recommend.NewEngine(engineCfg, psqlRepo.NewOutcomeRepository(db), artifacts)
	if err != nil {
		return err
	}

	ctx := recommend.WithTraceID(cmd.Context(), uuid.NewString())
	return trainInitial(ctx, artifacts, engine.Updater, cmd.OutOrStdout())
}

// trainInitial runs one manual retrain when no model is active and writes the
// result to out as JSON.
func trainInitial(ctx context.Context, artifacts recommend.ArtifactRepository, retrainer recommend.Retrainer, out io.Writer) error {
	active, err := artifacts.FindActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to check active model: %w", err)
	}
	if active != nil {
		return fmt.Errorf("%w (version %s)", ErrModelExists, active.Version)
	}

	res, err := retrainer.Retrain(ctx, recommend.TriggerManual)
	if err != nil {
		return err
	}

	raw, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode result: %w", err)
	}
	fmt.Fprintln(out, string(raw))

	if !res.Accepted {
		return fmt.Errorf("candidate rejected: %s", res.Reason)
	}
	return nil
}
