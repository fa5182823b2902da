package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-formwizard/pkg/testsupport"
)

const completeAnswers = `full_name: Ayla Demir
gender: female
birth_date: "1990-05-01"
birth_place: Izmir
birth_country: Turkey
marital_status: single
phone: "+90 532 123 4567"
email: ayla@example.com
addr_neighborhood: Alsancak
addr_avenue: Ataturk
addr_street: "1453"
addr_building_no: "12"
addr_flat_no: "4"
addr_postcode: "35220"
addr_district: Konak
addr_city: Izmir
addr_country: tr
passport_has: "no"
disability: none
criminal_record: none
family_reunion: "no"
german_level: b2
has_language_certificate: "no"
recognition_status: "no"
choice1: cardiology
choice2: emergency
choice3: surgery
motivation_text: I want to care for patients in Germany.
consent_ok: true
consent_name: Ayla Demir
`

func writeAnswers(t *testing.T, name, content string) map[string]any {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write answers: %v", err)
	}
	values, err := readValues(path)
	if err != nil {
		t.Fatalf("read answers: %v", err)
	}
	return values
}

func TestValidateAnswers_Complete(t *testing.T) {
	values := writeAnswers(t, "answers.yaml", completeAnswers)

	var out bytes.Buffer
	if err := validateAnswers(context.Background(), nil, values, "text", &out); err != nil {
		t.Fatalf("validate: %v\n%s", err, out.String())
	}
	if got := out.String(); got != "application is complete\n" {
		t.Fatalf("report = %q", got)
	}
}

func TestValidateAnswers_ReportsFirstIncompleteStep(t *testing.T) {
	values := writeAnswers(t, "answers.yaml", strings.Replace(completeAnswers, "full_name: Ayla Demir\n", "", 1))

	var out bytes.Buffer
	err := validateAnswers(context.Background(), nil, values, "text", &out)
	if !errors.Is(err, errIncomplete) {
		t.Fatalf("expected errIncomplete, got %v", err)
	}
	golden := filepath.Join("testdata", "incomplete_report.txt")
	if testsupport.WriteMaybeGolden(t, golden, out.Bytes()) {
		return
	}
	want := testsupport.MustReadGoldenString(t, golden)
	if got := out.String(); got != want {
		t.Fatalf("report = %q, want %q", got, want)
	}
}

func TestValidateAnswers_HTMLReport(t *testing.T) {
	values := writeAnswers(t, "answers.yaml", strings.Replace(completeAnswers, "choice3: surgery", "choice3: cardiology", 1))

	var out bytes.Buffer
	err := validateAnswers(context.Background(), nil, values, "html", &out)
	if !errors.Is(err, errIncomplete) {
		t.Fatalf("expected errIncomplete, got %v", err)
	}
	page := out.String()
	for _, want := range []string{
		`<section class="form-step" data-step="8">`,
		`<section class="form-step" data-step="1" hidden>`,
		`The three job preferences must all be different.`,
		`is-invalid" data-field="choice3"`,
	} {
		if !strings.Contains(page, want) {
			t.Errorf("html report missing %q", want)
		}
	}
}

func TestValidateAnswers_ReadsJSON(t *testing.T) {
	values := writeAnswers(t, "answers.json", `{"full_name": "Ayla Demir", "consent_ok": true, "experience_company_2": "Charité"}`)
	if values["consent_ok"] != true || values["experience_company_2"] != "Charité" {
		t.Fatalf("values = %v", values)
	}

	var out bytes.Buffer
	err := validateAnswers(context.Background(), nil, values, "text", &out)
	if !errors.Is(err, errIncomplete) {
		t.Fatalf("expected errIncomplete, got %v", err)
	}
}

func TestValidateAnswers_RejectsUnknownFormat(t *testing.T) {
	values := writeAnswers(t, "answers.yaml", completeAnswers)
	err := validateAnswers(context.Background(), nil, values, "xml", &bytes.Buffer{})
	if err == nil || errors.Is(err, errIncomplete) {
		t.Fatalf("expected a format error, got %v", err)
	}
}

func TestReadValues_MissingFile(t *testing.T) {
	if _, err := readValues(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
