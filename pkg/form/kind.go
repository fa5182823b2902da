package form

import (
	"fmt"
	"strings"
)

// Kind identifies the input control backing a field.
type Kind string

const (
	KindText        Kind = "text"
	KindDate        Kind = "date"
	KindNumber      Kind = "number"
	KindEmail       Kind = "email"
	KindTel         Kind = "tel"
	KindSelect      Kind = "select"
	KindRadio       Kind = "radio"
	KindCheckbox    Kind = "checkbox"
	KindFile        Kind = "file"
	KindMultiSelect Kind = "multiselect"
	KindTextArea    Kind = "textarea"

	// KindSection only appears in definitions; it groups dependent fields
	// behind a visibility rule and never becomes a Field.
	KindSection Kind = "section"
)

var knownKinds = map[Kind]struct{}{
	KindText:        {},
	KindDate:        {},
	KindNumber:      {},
	KindEmail:       {},
	KindTel:         {},
	KindSelect:      {},
	KindRadio:       {},
	KindCheckbox:    {},
	KindFile:        {},
	KindMultiSelect: {},
	KindTextArea:    {},
	KindSection:     {},
}

// ParseKind normalises a raw kind identifier.
func ParseKind(raw string) (Kind, error) {
	kind := Kind(strings.ToLower(strings.TrimSpace(raw)))
	if kind == "" {
		return KindText, nil
	}
	if _, ok := knownKinds[kind]; !ok {
		return "", fmt.Errorf("form: unknown field kind %q", raw)
	}
	return kind, nil
}

// TextLike reports whether the kind stores a single free-form value that the
// required check evaluates by trimming.
func (k Kind) TextLike() bool {
	switch k {
	case KindText, KindDate, KindNumber, KindEmail, KindTel, KindSelect, KindTextArea:
		return true
	default:
		return false
	}
}
