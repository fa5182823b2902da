// Package html renders the career application wizard as an HTML form: every
// step section, its fields with visibility and invalid markers, and the
// chrome (progress bar, step indicator, error banner, navigation buttons).
package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/form"
	rendertemplate "github.com/goliatone/go-formwizard/pkg/render/template"
	"github.com/goliatone/go-formwizard/pkg/render/template/gotemplate"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// DefaultAccept lists the upload types offered by file inputs.
const DefaultAccept = ".pdf,.jpg,.jpeg,.png"

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	accept           string
}

// WithTemplatesFS supplies an alternate template bundle.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithAccept overrides the accept attribute of file inputs.
func WithAccept(accept string) Option {
	return func(cfg *config) {
		if accept != "" {
			cfg.accept = accept
		}
	}
}

// Renderer turns a session and its surface into markup.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	accept    string
}

// New returns a renderer over the embedded templates unless overridden.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS(), accept: DefaultAccept}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(gotemplate.WithFS(cfg.templateFS))
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}
	return &Renderer{templates: renderer, accept: cfg.accept}, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "html"
}

// ContentType reports the media type of rendered pages.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Chrome renders the progress bar, indicator, banner and navigation of the
// frame recorded on s.
func (r *Renderer) Chrome(s *Surface) (string, error) {
	if r.templates == nil {
		return "", errors.New("html renderer: template renderer is nil")
	}
	if s == nil {
		return "", errors.New("html renderer: surface is required")
	}
	frame := s.Frame()
	out, err := r.templates.RenderTemplate("chrome", map[string]any{
		"frame":  frameView(frame),
		"errors": messagesView(s.Banner(frame.Step)),
	})
	if err != nil {
		return "", fmt.Errorf("html renderer: render chrome: %w", err)
	}
	return out, nil
}

// Page renders the whole form of session with the state recorded on s.
func (r *Renderer) Page(ctx context.Context, session *formwizard.Session, s *Surface) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("html renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, errors.New("html renderer: template renderer is nil")
	}
	if session == nil || s == nil {
		return nil, errors.New("html renderer: session and surface are required")
	}

	frame := s.Frame()
	if frame.Step == 0 {
		frame = session.Controller.Frame(session.Controller.State().Current)
	}

	steps := make([]map[string]any, 0, len(session.Definition.Steps))
	for _, step := range session.Definition.StepLayout() {
		steps = append(steps, map[string]any{
			"index":   step.Index,
			"name":    step.Name,
			"current": step.Index == frame.Step,
			"fields":  fieldViews(session.Form, step.Index),
		})
	}

	out, err := r.templates.RenderTemplate("page", map[string]any{
		"page": map[string]any{
			"id":    session.Definition.ID,
			"steps": steps,
		},
		"frame":  frameView(frame),
		"errors": messagesView(s.Banner(frame.Step)),
		"accept": r.accept,
	})
	if err != nil {
		return nil, fmt.Errorf("html renderer: render page: %w", err)
	}
	return []byte(out), nil
}

func frameView(f wizard.Frame) map[string]any {
	return map[string]any{
		"step":         f.Step,
		"total":        f.Total,
		"name":         f.Name,
		"indicator":    f.Indicator,
		"percent":      int(math.Round(f.Percent)),
		"showPrevious": f.ShowPrevious,
		"showNext":     f.ShowNext,
		"showSubmit":   f.ShowSubmit,
	}
}

func messagesView(messages []string) []any {
	out := make([]any, 0, len(messages))
	for _, msg := range messages {
		if clean := sanitizeMessage(msg); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// fieldViews lists the fields of step in document order. Radio members are
// folded into one entry carrying the group's options.
func fieldViews(m *form.Memory, step int) []any {
	var out []any
	seen := make(map[string]struct{})
	for _, f := range m.StepFields(step) {
		if _, ok := seen[f.Name]; ok {
			continue
		}
		seen[f.Name] = struct{}{}

		view := map[string]any{
			"name":     f.Name,
			"kind":     string(f.Kind),
			"input":    inputType(f.Kind),
			"label":    sanitizeLabel(f.DisplayLabel()),
			"value":    f.Value,
			"checked":  f.Checked,
			"required": f.Required,
			"invalid":  m.Invalid(f.Name),
			"hidden":   !m.Visible(f),
		}

		var options []any
		switch f.Kind {
		case form.KindRadio:
			checked := m.RadioValue(f.Name)
			for _, opt := range f.Options {
				options = append(options, optionView(opt.Value, opt.DisplayLabel(), opt.Value == checked))
			}
		case form.KindSelect:
			for _, opt := range f.Options {
				options = append(options, optionView(opt.Value, opt.DisplayLabel(), opt.Value == f.Value))
			}
		case form.KindMultiSelect:
			picked := make(map[string]struct{}, len(f.Values))
			for _, v := range f.Values {
				picked[v] = struct{}{}
			}
			for _, opt := range f.Options {
				_, ok := picked[opt.Value]
				options = append(options, optionView(opt.Value, opt.DisplayLabel(), ok))
			}
		case form.KindFile:
			files := make([]any, 0, len(f.Files))
			for _, file := range f.Files {
				files = append(files, file.Name)
			}
			view["files"] = files
		}
		view["options"] = options
		out = append(out, view)
	}
	return out
}

func optionView(value, label string, selected bool) map[string]any {
	return map[string]any{"value": value, "label": label, "selected": selected}
}

func inputType(kind form.Kind) string {
	switch kind {
	case form.KindDate, form.KindNumber, form.KindEmail, form.KindTel:
		return string(kind)
	default:
		return "text"
	}
}
