package main

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"star-backend/internal/evaluations"
	"star-backend/internal/usage"
)

var (
	answer     string
	answerFile string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Render (or run) the evaluation prompt for an answer",
	RunE:  runEvaluate,
}

func init() {
	evaluateCmd.Flags().StringVar(&answer, "answer", "", "candidate answer text")
	evaluateCmd.Flags().StringVar(&answerFile, "answer-file", "", "read the candidate answer from a file")
	rootCmd.AddCommand(evaluateCmd)
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	d, err := loadDeps()
	if err != nil {
		return err
	}
	ic := baseContext()
	if ic.Answer, err = readAnswer(answer, answerFile); err != nil {
		return err
	}

	if !call {
		p, err := evaluations.BuildPrompt(ic, d.catalog.ValuesOrEmpty(ic.Company))
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
	svc := &evaluations.Service{
		Catalog:     d.catalog,
		LLM:         client,
		Usage:       usage.NewService(),
		SchemaCheck: d.cfg.EvaluationSchemaCheck,
		StripFences: d.cfg.LLMStripFences,
	}
	res, err := svc.Evaluate(cmd.Context(), ic)
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, res.Raw(), "", "  "); err != nil {
		return fmt.Errorf("format json: %w", err)
	}
	return emit(cmd, pretty.Bytes())
}
