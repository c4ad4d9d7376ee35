package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"loan-approval/domain"
	"loan-approval/repository"
	"loan-approval/service"
)

func predictCmd() *cobra.Command {
	var (
		input     domain.ApplicantInput
		education string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Score a single applicant against the model",
		Example: `  loan-approval predict --dependents 2 --education Graduate --income 9600000 \
    --loan-amount 29900000 --cibil 778 --assets 50700000`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			input.Education, err = domain.ParseEducation(education)
			if err != nil {
				return err
			}

			model, err := loadModel(cfg, log)
			if err != nil {
				return err
			}
			svc := service.NewPredictionService(model,
				repository.NewPredictionRepositoryMemory(1), repository.NewMemoryCache(0), log)

			outcome, err := svc.Predict(cmd.Context(), input)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(outcome)
			}
			fmt.Fprintf(out, "%s (%d of %d neighbors approved)\n",
				outcome.Record.Decision, outcome.Record.ApprovedVotes, outcome.Record.K)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&input.Dependents, "dependents", 0, "number of dependents")
	f.StringVar(&education, "education", "Graduate", "Graduate or Not Graduate")
	f.Float64Var(&input.Income, "income", 0, "annual income in rupees")
	f.Float64Var(&input.LoanAmount, "loan-amount", 0, "requested loan amount in rupees")
	f.Float64Var(&input.Cibil, "cibil", 0, "CIBIL credit score")
	f.Float64Var(&input.AssetsTotal, "assets", 0, "total asset value in rupees")
	f.BoolVar(&asJSON, "json", false, "print the full outcome as JSON")
	for _, name := range []string{"dependents", "income", "loan-amount", "cibil", "assets"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
