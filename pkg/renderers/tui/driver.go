package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// InputConfig configures a single line prompt.
type InputConfig struct {
	Message   string
	Default   string
	Help      string
	Validator func(string) error
}

// ConfirmConfig configures a yes/no prompt.
type ConfirmConfig struct {
	Message string
	Default bool
	Help    string
}

// SelectConfig configures a single or multi-select prompt.
type SelectConfig struct {
	Message      string
	Options      []string
	DefaultIndex int
	Defaults     []int // multi-select only; indices into Options
	Help         string
	PageSize     int
}

// TextAreaConfig configures a multi-line prompt.
type TextAreaConfig struct {
	Message string
	Default string
	Help    string
}

// PromptDriver abstracts the terminal so the host can be tested with
// scripted answers.
type PromptDriver interface {
	Input(ctx context.Context, cfg InputConfig) (string, error)
	Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error)
	Select(ctx context.Context, cfg SelectConfig) (int, error)
	MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error)
	TextArea(ctx context.Context, cfg TextAreaConfig) (string, error)
	Info(ctx context.Context, msg string) error
}

// defaultPageSize fits the longest catalogs of the application (the German
// states) on one screen.
const defaultPageSize = 12

type surveyDriver struct {
	out   io.Writer
	theme Theme
}

// NewSurveyDriver returns the interactive driver. Informational lines go to
// out, or stdout when out is nil. The theme's error and info prefixes replace
// survey's validation and help icons.
func NewSurveyDriver(out io.Writer, theme Theme) PromptDriver {
	if out == nil {
		out = os.Stdout
	}
	return &surveyDriver{out: out, theme: theme}
}

// ask runs one survey prompt. A cancelled context skips the terminal and an
// interrupt surfaces as ErrAborted.
func (d *surveyDriver) ask(ctx context.Context, prompt survey.Prompt, answer any, opts ...survey.AskOpt) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opts = append(opts, survey.WithIcons(d.icons))
	if err := survey.AskOne(prompt, answer, opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return ErrAborted
		}
		return err
	}
	return nil
}

func (d *surveyDriver) icons(set *survey.IconSet) {
	if prefix := strings.TrimSpace(d.theme.ErrorPrefix); prefix != "" {
		set.Error.Text = prefix
	}
	if prefix := strings.TrimSpace(d.theme.InfoPrefix); prefix != "" {
		set.Help.Text = prefix
	}
}

func (d *surveyDriver) Input(ctx context.Context, cfg InputConfig) (string, error) {
	var answer string
	var opts []survey.AskOpt
	if cfg.Validator != nil {
		opts = append(opts, survey.WithValidator(func(ans any) error {
			s, _ := ans.(string)
			return cfg.Validator(s)
		}))
	}
	prompt := &survey.Input{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	if err := d.ask(ctx, prompt, &answer, opts...); err != nil {
		return "", err
	}
	return answer, nil
}

func (d *surveyDriver) Confirm(ctx context.Context, cfg ConfirmConfig) (bool, error) {
	var answer bool
	prompt := &survey.Confirm{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	if err := d.ask(ctx, prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}

// Select answers with the picked index; survey writes it straight into an int.
func (d *surveyDriver) Select(ctx context.Context, cfg SelectConfig) (int, error) {
	prompt := &survey.Select{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: pageSize(cfg),
	}
	if cfg.DefaultIndex >= 0 && cfg.DefaultIndex < len(cfg.Options) {
		prompt.Default = cfg.DefaultIndex
	}
	answer := -1
	if err := d.ask(ctx, prompt, &answer); err != nil {
		return -1, err
	}
	return answer, nil
}

func (d *surveyDriver) MultiSelect(ctx context.Context, cfg SelectConfig) ([]int, error) {
	prompt := &survey.MultiSelect{
		Message:  cfg.Message,
		Options:  cfg.Options,
		Help:     cfg.Help,
		PageSize: pageSize(cfg),
	}
	if defaults := validIndices(cfg.Defaults, len(cfg.Options)); len(defaults) > 0 {
		prompt.Default = defaults
	}
	var answer []int
	if err := d.ask(ctx, prompt, &answer); err != nil {
		return nil, err
	}
	return answer, nil
}

func (d *surveyDriver) TextArea(ctx context.Context, cfg TextAreaConfig) (string, error) {
	var answer string
	prompt := &survey.Multiline{Message: cfg.Message, Help: cfg.Help, Default: cfg.Default}
	if err := d.ask(ctx, prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

// Info prints msg on its own line. Prefixes are added by the host.
func (d *surveyDriver) Info(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(d.out, msg)
	return err
}

func pageSize(cfg SelectConfig) int {
	if cfg.PageSize > 0 {
		return cfg.PageSize
	}
	return min(max(len(cfg.Options), 1), defaultPageSize)
}

func validIndices(indices []int, n int) []int {
	var out []int
	for _, idx := range indices {
		if idx >= 0 && idx < n {
			out = append(out, idx)
		}
	}
	return out
}
