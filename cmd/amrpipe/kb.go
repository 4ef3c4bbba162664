package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bactwatch/amrpipe/internal/kb"
)

func newKBCmd() *cobra.Command {
	var kbPath string

	cmd := &cobra.Command{
		Use:   "kb [gene]",
		Short: "Inspect the resistance knowledge base",
		Long: `Without arguments, lists every curated gene and its mutation count.
With a gene name, prints that gene's curated mutations.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if kbPath == "" {
				kbPath = viper.GetString("kb.path")
			}

			knowledgeBase, err := kb.Load(kbPath)
			if err != nil {
				return err
			}
			if knowledgeBase.Len() == 0 {
				fmt.Printf("Knowledge base %s is empty or missing\n", kbPath)
				return nil
			}

			if len(args) == 1 {
				gene := args[0]
				entries := knowledgeBase.Entries(gene)
				if len(entries) == 0 {
					return fmt.Errorf("gene %q is not in the knowledge base", gene)
				}
				for _, e := range entries {
					fmt.Printf("%s\t%s\t%s\n", e.Mutation, e.Phenotype, e.Structure)
				}
				return nil
			}

			for _, gene := range knowledgeBase.Genes() {
				fmt.Printf("%s\t%d\n", gene, len(knowledgeBase.Entries(gene)))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&kbPath, "kb", "", "resistance knowledge base JSON (default from config)")

	return cmd
}
