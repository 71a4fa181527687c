package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"star-backend/internal/generations"
	"star-backend/internal/usage"
)

var candidateContext string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render (or run) the answer generation prompt",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&candidateContext, "context", "", "optional background about the candidate")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	d, err := loadDeps()
	if err != nil {
		return err
	}
	ic := baseContext()
	ic.FreeformContext = candidateContext

	if !call {
		p, err := generations.BuildPrompt(ic, d.catalog.ValuesOrEmpty(ic.Company))
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		printPrompt(&buf, p)
		return emit(cmd, buf.Bytes())
	}

	client, err := d.client()
	if err != nil {
		return err
	}
	svc := &generations.Service{Catalog: d.catalog, LLM: client, Usage: usage.NewService()}
	text, err := svc.Generate(cmd.Context(), ic)
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}
	return emit(cmd, []byte(text))
}
