package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/bactwatch/amrpipe/internal/batch"
	"github.com/bactwatch/amrpipe/internal/classify"
	"github.com/bactwatch/amrpipe/internal/kb"
	"github.com/bactwatch/amrpipe/internal/predict"
	"github.com/bactwatch/amrpipe/internal/report"
	"github.com/bactwatch/amrpipe/internal/store"
)

func newClassifyCmd() *cobra.Command {
	var (
		proteinDir string
		refDir     string
		outputFile string
		kbPath     string
		mlFallback bool
		modelDir   string
		antibiotic string
		dbPath     string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Classify resistance mutations for a directory of protein files",
		Example: `  amrpipe classify --proteins proteins/ --references refs/
  amrpipe classify --proteins proteins/ --references refs/ -o report.tsv
  amrpipe classify --proteins proteins/ --references refs/ \
      --ml-fallback --antibiotic Ciprofloxacin --model-dir models/`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if kbPath == "" {
				kbPath = viper.GetString("kb.path")
			}
			if modelDir == "" {
				modelDir = viper.GetString("models.dir")
			}
			if antibiotic == "" {
				antibiotic = viper.GetString("antibiotic")
			}
			return runClassify(classifyOptions{
				proteinDir: proteinDir,
				refDir:     refDir,
				outputFile: outputFile,
				kbPath:     kbPath,
				mlFallback: mlFallback,
				modelDir:   modelDir,
				antibiotic: antibiotic,
				dbPath:     dbPath,
				workers:    workers,
			})
		},
	}

	cmd.Flags().StringVarP(&proteinDir, "proteins", "p", "", "directory of translated protein FASTA files")
	cmd.Flags().StringVarP(&refDir, "references", "r", "", "directory of wild-type reference FASTA files")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output report path (default: stdout)")
	cmd.Flags().StringVar(&kbPath, "kb", "", "resistance knowledge base JSON (default from config)")
	cmd.Flags().BoolVar(&mlFallback, "ml-fallback", false, "predict risk of mutations missing from the knowledge base")
	cmd.Flags().StringVar(&modelDir, "model-dir", "", "directory of trained model artifacts (default from config)")
	cmd.Flags().StringVar(&antibiotic, "antibiotic", "", "target antibiotic for model fallback")
	cmd.Flags().StringVar(&dbPath, "db", "", "also persist results to this DuckDB database")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker count (default: number of CPUs)")
	cmd.MarkFlagRequired("proteins")
	cmd.MarkFlagRequired("references")

	return cmd
}

type classifyOptions struct {
	proteinDir string
	refDir     string
	outputFile string
	kbPath     string
	mlFallback bool
	modelDir   string
	antibiotic string
	dbPath     string
	workers    int
}

func runClassify(opts classifyOptions) error {
	if opts.mlFallback && opts.antibiotic == "" {
		return fmt.Errorf("--ml-fallback requires --antibiotic (models are antibiotic-specific)")
	}

	if _, err := os.Stat(opts.kbPath); err != nil {
		logger.Warn("knowledge base not found, every mutation falls through to model or VUS",
			zap.String("path", opts.kbPath))
	}
	knowledgeBase, err := kb.Load(opts.kbPath)
	if err != nil {
		return err
	}
	logger.Info("knowledge base loaded",
		zap.String("path", opts.kbPath),
		zap.Int("genes", len(knowledgeBase.Genes())),
		zap.Int("mutations", knowledgeBase.Len()))

	classifier := classify.New(knowledgeBase)
	classifier.SetLogger(logger)
	if opts.mlFallback {
		classifier.EnableModelFallback(predict.New(opts.modelDir), opts.antibiotic)
	}

	runner := batch.NewRunner(opts.refDir, classifier)
	runner.SetLogger(logger)
	runner.SetWorkers(opts.workers)

	results, err := runner.Run(opts.proteinDir)
	if err != nil {
		return err
	}

	out := os.Stdout
	if opts.outputFile != "" {
		out, err = os.Create(opts.outputFile)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer out.Close()
	}

	if err := report.NewTabWriter(out).WriteAll(results); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if opts.dbPath != "" {
		if err := persistResults(opts.dbPath, results); err != nil {
			return err
		}
	}

	return nil
}

func persistResults(dbPath string, results []classify.Result) error {
	s, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer s.Close()

	runID := uuid.NewString()
	if err := s.SaveResults(runID, results); err != nil {
		return err
	}
	logger.Info("results persisted",
		zap.String("db", dbPath),
		zap.String("run_id", runID),
		zap.Int("rows", len(results)))
	return nil
}
