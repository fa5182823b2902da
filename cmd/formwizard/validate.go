package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/form"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
)

// errIncomplete makes the command exit non-zero without repeating the report.
var errIncomplete = errors.New("application is incomplete")

func newValidateCmd() *cobra.Command {
	var valuesPath string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a saved set of answers",
		Long: `validate loads answers from a YAML or JSON file, runs every step's checks
and reports the first incomplete step. The command exits non-zero when the
application could not be submitted.`,
		Example: `  formwizard validate --values answers.yaml
  formwizard validate --values answers.json --format html > review.html`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			values, err := readValues(valuesPath)
			if err != nil {
				return err
			}
			def, err := loadDefinition()
			if err != nil {
				return err
			}
			return validateAnswers(cmd.Context(), def, values, viper.GetString("format"), cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&valuesPath, "values", "", "answers file (YAML or JSON)")
	cmd.Flags().String("format", "text", "report format: text or html")
	_ = cmd.MarkFlagRequired("values")
	_ = viper.BindPFlag("format", cmd.Flags().Lookup("format"))
	return cmd
}

func readValues(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read values: %w", err)
	}
	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse values %s: %w", path, err)
	}
	return values, nil
}

// validateAnswers restores values into a fresh session and writes a report.
// It returns errIncomplete when a step fails.
func validateAnswers(ctx context.Context, def *form.Definition, values map[string]any, format string, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	surface := html.NewSurface()
	session, err := formwizard.NewSession(def,
		formwizard.WithValues(values),
		formwizard.WithSurface(surface),
		formwizard.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	summary := session.Controller.ValidateAll()
	if !summary.Valid {
		if err := session.Controller.JumpTo(summary.FirstInvalidStep); err != nil {
			return err
		}
		session.Controller.Validate(summary.FirstInvalidStep, true)
	}

	switch format {
	case "", "text":
		if err := writeText(w, session, summary.Valid, summary.FirstInvalidStep, summary.Result.Errors); err != nil {
			return err
		}
	case "html":
		renderer, err := html.New()
		if err != nil {
			return err
		}
		page, err := renderer.Page(ctx, session, surface)
		if err != nil {
			return err
		}
		if _, err := w.Write(page); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown report format %q", format)
	}

	if !summary.Valid {
		slog.Debug("validation failed", "step", summary.FirstInvalidStep, "errors", len(summary.Result.Errors))
		return errIncomplete
	}
	return nil
}

func writeText(w io.Writer, s *formwizard.Session, valid bool, step int, messages []string) error {
	if valid {
		_, err := fmt.Fprintln(w, "application is complete")
		return err
	}
	frame := s.Controller.Frame(step)
	if _, err := fmt.Fprintf(w, "step %s is incomplete\n", frame.Indicator); err != nil {
		return err
	}
	for _, msg := range messages {
		if _, err := fmt.Fprintf(w, "  - %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
