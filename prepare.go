package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"loan-approval/dataset"
	"loan-approval/domain"
	"loan-approval/logger"
)

func prepareCmd() *cobra.Command {
	var (
		input    string
		output   string
		accuracy float64
	)

	cmd := &cobra.Command{
		Use:   "prepare",
		Short: "Build model_data.json from the raw loan approval CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := logger.New(viper.GetString("logging.level"), viper.GetString("logging.format"))
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			in, err := os.Open(input)
			if err != nil {
				return fmt.Errorf("open dataset: %w", err)
			}
			defer in.Close()

			opts := dataset.PrepareOptions{}
			if cmd.Flags().Changed("accuracy") {
				opts.Accuracy = &accuracy
			}
			snapshot, err := dataset.Prepare(in, opts)
			if err != nil {
				return err
			}

			records, err := snapshot.Records()
			if err != nil {
				return err
			}
			approved := 0
			for _, r := range records {
				if r.Label == domain.LabelApproved {
					approved++
				}
			}
			if approved == 0 || approved == len(records) {
				log.Warn("only one class present in loan_status; expected Approved/Rejected values")
			}

			out, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			if err := dataset.Write(out, snapshot); err != nil {
				out.Close()
				return fmt.Errorf("write output: %w", err)
			}
			if err := out.Close(); err != nil {
				return fmt.Errorf("close output: %w", err)
			}

			log.Info("model data written",
				zap.String("output", output),
				zap.Int("records", len(records)),
				zap.Int("approved", approved),
				zap.Int("rejected", len(records)-approved),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "loan_approval_dataset.csv", "raw dataset CSV")
	cmd.Flags().StringVar(&output, "output", "model_data.json", "where to write the model data")
	cmd.Flags().Float64Var(&accuracy, "accuracy", 0, "headline accuracy (percent) to embed for display")

	return cmd
}
