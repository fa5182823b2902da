package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/renderers/tui"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in an application interactively",
		Example: `  formwizard run
  formwizard run --output pretty
  FORMWIZARD_OUTPUT=form formwizard run`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runWizard(ctx, tui.OutputFormat(viper.GetString("output")))
		},
	}
	cmd.Flags().String("output", string(tui.OutputFormatJSON), "submission format: json, form or pretty")
	_ = viper.BindPFlag("output", cmd.Flags().Lookup("output"))
	return cmd
}

func runWizard(ctx context.Context, format tui.OutputFormat) error {
	switch format {
	case tui.OutputFormatJSON, tui.OutputFormatFormURLEncoded, tui.OutputFormatPrettyText:
	default:
		return fmt.Errorf("unknown output format %q", format)
	}

	def, err := loadDefinition()
	if err != nil {
		return err
	}
	host := tui.New(
		tui.WithOutput(os.Stdout),
		tui.WithOutputFormat(format),
		tui.WithTheme(tui.Theme{StepPrefix: "== ", ErrorPrefix: "! "}),
	)
	session, err := formwizard.NewSession(def,
		formwizard.WithSurface(host),
		formwizard.WithSubmitter(host),
		formwizard.WithLogger(slog.Default()),
	)
	if err != nil {
		return err
	}

	sub, err := host.Run(ctx, session)
	if errors.Is(err, tui.ErrAborted) {
		slog.Info("application abandoned", "step", session.Controller.State().Current)
		return nil
	}
	if err != nil {
		return err
	}
	slog.Info("application submitted", "id", sub.ID)
	return nil
}
