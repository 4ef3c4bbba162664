package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bactwatch/amrpipe/internal/predict"
)

func newPredictCmd() *cobra.Command {
	var (
		antibiotic string
		modelDir   string
	)

	cmd := &cobra.Command{
		Use:   "predict <mutation-token>...",
		Short: "Score mutation tokens against a trained resistance model",
		Example: `  amrpipe predict --antibiotic Ciprofloxacin S83L D87N
  amrpipe predict --antibiotic "Nalidixic Acid" gyrA_S83L`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelDir == "" {
				modelDir = viper.GetString("models.dir")
			}
			if antibiotic == "" {
				antibiotic = viper.GetString("antibiotic")
			}
			if antibiotic == "" {
				return fmt.Errorf("--antibiotic is required (models are antibiotic-specific)")
			}

			p := predict.New(modelDir)
			for _, res := range p.PredictBatch(args, antibiotic) {
				if !res.OK {
					fmt.Printf("%s\tfailed\t%s\n", res.Token, res.Reason)
					continue
				}
				fmt.Printf("%s\t%.4f\t%s\n", res.Token, res.Probability, res.RiskLevel)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&antibiotic, "antibiotic", "", "target antibiotic")
	cmd.Flags().StringVar(&modelDir, "model-dir", "", "directory of trained model artifacts (default from config)")

	return cmd
}
