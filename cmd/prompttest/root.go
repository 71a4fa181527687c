package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"star-backend/internal/bootstrap"
	"star-backend/internal/catalog"
	"star-backend/internal/interview"
	"star-backend/internal/llm"
	"star-backend/internal/shared/config"
)

var (
	role     string
	company  string
	level    string
	question string
	call     bool
	outPath  string
)

var rootCmd = &cobra.Command{
	Use:          "prompttest",
	Short:        "Render STAR coach prompts and optionally run them",
	SilenceUsage: true,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&role, "role", "Software Engineer", "target role")
	flags.StringVar(&company, "company", "Amazon", "target company")
	flags.StringVar(&level, "level", "Mid-level (3-5 years)", "experience level")
	flags.StringVar(&question, "question", "Tell me about a time you had to meet a tight deadline.", "interview question")
	flags.BoolVar(&call, "call", false, "send the prompt to the configured model instead of printing it")
	flags.StringVarP(&outPath, "out", "o", "", "write output to this file as well as stdout")
}

func baseContext() interview.Context {
	return interview.Context{
		Role:            strings.TrimSpace(role),
		Company:         strings.TrimSpace(company),
		ExperienceLevel: strings.TrimSpace(level),
		Question:        strings.TrimSpace(question),
	}
}

type deps struct {
	cfg     config.Config
	catalog *catalog.Catalog
}

func loadDeps() (deps, error) {
	cfg := config.Load()
	cat, err := bootstrap.LoadCatalog(context.Background(), cfg)
	if err != nil {
		return deps{}, err
	}
	return deps{cfg: cfg, catalog: cat}, nil
}

func (d deps) client() (llm.Client, error) {
	return bootstrap.BuildLLM(d.cfg)
}

func printPrompt(w io.Writer, p interview.Prompt) {
	fmt.Fprintf(w, "=== system ===\n%s\n\n=== user ===\n%s\n", p.System, p.User)
}

func emit(cmd *cobra.Command, out []byte) error {
	if outPath != "" {
		if err := os.WriteFile(outPath, out, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
	}
	if len(out) == 0 || out[len(out)-1] != '\n' {
		out = append(out, '\n')
	}
	_, err := cmd.OutOrStdout().Write(out)
	return err
}

func readAnswer(inline, file string) (string, error) {
	if strings.TrimSpace(file) == "" {
		return inline, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read answer: %w", err)
	}
	return string(data), nil
}
