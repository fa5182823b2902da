package html_test

import (
	"context"
	"strings"
	"testing"
	"time"

	formwizard "github.com/goliatone/go-formwizard"
	"github.com/goliatone/go-formwizard/pkg/career"
	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/rules"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

func newPage(t *testing.T, opts ...formwizard.Option) (*formwizard.Session, *html.Surface, *html.Renderer) {
	t.Helper()
	surface := html.NewSurface()
	opts = append([]formwizard.Option{
		formwizard.WithSurface(surface),
		formwizard.WithClock(testsupport.FixedClock()),
	}, opts...)
	session, err := formwizard.NewSession(nil, opts...)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	renderer, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return session, surface, renderer
}

func render(t *testing.T, r *html.Renderer, s *formwizard.Session, surface *html.Surface) string {
	t.Helper()
	out, err := r.Page(testsupport.Context(), s, surface)
	if err != nil {
		t.Fatalf("page: %v", err)
	}
	return string(out)
}

func TestPageShowsOnlyCurrentStep(t *testing.T) {
	s, surface, r := newPage(t)
	out := render(t, r, s, surface)

	for _, want := range []string{
		`<form class="fw-wizard" id="career_application"`,
		`<section class="form-step" data-step="1">`,
		`<section class="form-step" data-step="2" hidden>`,
		`<section class="form-step" data-step="10" hidden>`,
		`aria-valuenow="10"`,
		`<p class="fw-indicator">1/10: Personal Information</p>`,
		`<button type="button" class="fw-prev" hidden>Previous</button>`,
		`<button type="submit" class="fw-submit" hidden>Submit application</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(out, "fw-errors") {
		t.Errorf("fresh page should carry no error banner")
	}
}

func TestPageHidesConditionalSections(t *testing.T) {
	s, surface, r := newPage(t)

	out := render(t, r, s, surface)
	if !strings.Contains(out, `data-field="passport_no" hidden>`) {
		t.Fatalf("passport number should start hidden")
	}

	if _, _, err := s.Set(career.FieldPassportHas, career.Yes); err != nil {
		t.Fatalf("set passport: %v", err)
	}
	out = render(t, r, s, surface)
	if strings.Contains(out, `data-field="passport_no" hidden>`) {
		t.Fatalf("passport number should show once a passport is declared")
	}
	if !strings.Contains(out, `accept=".pdf,.jpg,.jpeg,.png"`) {
		t.Fatalf("file input should carry the accepted types")
	}
}

func TestPageGroupsRadioMembers(t *testing.T) {
	s, surface, r := newPage(t)
	if _, _, err := s.Set(career.FieldGender, career.Male); err != nil {
		t.Fatalf("set gender: %v", err)
	}
	out := render(t, r, s, surface)

	if got := strings.Count(out, `data-field="gender"`); got != 1 {
		t.Fatalf("expected one gender group, got %d", got)
	}
	if !strings.Contains(out, `value="male" checked> Male`) {
		t.Fatalf("male option should be checked")
	}
	if strings.Contains(out, `value="female" checked`) {
		t.Fatalf("female option should not be checked")
	}
}

func TestPageMarksInvalidFieldsAfterNext(t *testing.T) {
	s, surface, r := newPage(t)
	result, err := s.Controller.Next()
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if result.Valid {
		t.Fatalf("empty step 1 should not validate")
	}

	out := render(t, r, s, surface)
	if !strings.Contains(out, `<div class="fw-errors" role="alert">`) {
		t.Fatalf("expected an error banner")
	}
	if !strings.Contains(out, `fw-field--text is-invalid" data-field="full_name"`) {
		t.Fatalf("full name should be flagged")
	}
	if surface.Scrolled() != 1 {
		t.Fatalf("expected scroll to step 1, got %d", surface.Scrolled())
	}
}

func TestChromeStripsMarkupFromMessages(t *testing.T) {
	hostile := func(rules.Input) []rules.Violation {
		return []rules.Violation{rules.Violate(`<script>alert(1)</script><b>Name</b> looks odd`, career.FieldFullName)}
	}
	s, surface, r := newPage(t, formwizard.WithRules(rules.Set{1: hostile}))
	if _, err := s.Controller.Next(); err != nil {
		t.Fatalf("next: %v", err)
	}

	out, err := r.Chrome(surface)
	if err != nil {
		t.Fatalf("chrome: %v", err)
	}
	if strings.Contains(out, "<script") || strings.Contains(out, "alert(1)") || strings.Contains(out, "<b>") {
		t.Fatalf("markup leaked into the banner: %s", out)
	}
	if !strings.Contains(out, "<li>Name looks odd</li>") {
		t.Fatalf("expected the plain message, got %s", out)
	}
}

func TestChromeFollowsNavigation(t *testing.T) {
	s, surface, _ := newPage(t)
	if err := s.Controller.JumpTo(10); err != nil {
		t.Fatalf("jump: %v", err)
	}
	out, err := surface.Markup()
	if err != nil {
		t.Fatalf("markup: %v", err)
	}
	for _, want := range []string{
		`style="width: 100%"`,
		`10/10: Motivation &amp; Consent`,
		`<button type="button" class="fw-prev">Previous</button>`,
		`<button type="button" class="fw-next" hidden>Next</button>`,
		`<button type="submit" class="fw-submit">Submit application</button>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("chrome missing %q in %s", want, out)
		}
	}
}

func TestRendererRequiresInputs(t *testing.T) {
	r, err := html.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if _, err := r.Chrome(nil); err == nil {
		t.Fatalf("expected error for nil surface")
	}
	if _, err := r.Page(context.Background(), nil, html.NewSurface()); err == nil {
		t.Fatalf("expected error for nil session")
	}
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()
	if _, err := r.Page(ctx, nil, nil); err == nil {
		t.Fatalf("expected error for expired context")
	}
	if r.Name() != "html" || !strings.HasPrefix(r.ContentType(), "text/html") {
		t.Fatalf("unexpected renderer identity %q %q", r.Name(), r.ContentType())
	}
}
