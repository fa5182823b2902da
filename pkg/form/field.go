package form

// Option is one selectable choice of a select, radio group or multi-select.
// Other marks catch-all entries ("other department") that some consumers
// filter out.
type Option struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	Other bool   `json:"other,omitempty" yaml:"other,omitempty"`
}

// DisplayLabel falls back to the option value when no label is set.
func (o Option) DisplayLabel() string {
	if o.Label != "" {
		return o.Label
	}
	return o.Value
}

// Attachment describes a file attached to a file input.
type Attachment struct {
	Name        string `json:"name"`
	Size        int64  `json:"size,omitempty"`
	ContentType string `json:"contentType,omitempty"`
}

// Step is the static description of one wizard page. Index is 1-based and
// ordinal order drives progress, display names and rule dispatch.
type Step struct {
	Index    int    `json:"index"`
	Name     string `json:"name"`
	Selector string `json:"selector,omitempty"`
}

// Condition binds a dependent section to the field whose value decides its
// visibility. Rule is an expression evaluated against the trigger value.
type Condition struct {
	Section string `json:"section"`
	Trigger string `json:"trigger"`
	Rule    string `json:"rule"`
}

// Field is a snapshot of one form element. Values returned by accessors are
// copies; mutate the form through Memory's methods instead.
type Field struct {
	Name     string       `json:"name"`
	Kind     Kind         `json:"kind"`
	Label    string       `json:"label,omitempty"`
	Value    string       `json:"value,omitempty"`
	Values   []string     `json:"values,omitempty"`
	Checked  bool         `json:"checked,omitempty"`
	Required bool         `json:"required,omitempty"`
	Step     int          `json:"step"`
	Sections []string     `json:"sections,omitempty"`
	Group    string       `json:"group,omitempty"`
	Options  []Option     `json:"options,omitempty"`
	Files    []Attachment `json:"files,omitempty"`
	Invalid  bool         `json:"invalid,omitempty"`
}

// DisplayLabel falls back to the field name when no label is set.
func (f Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return f.Name
}

// HasOption reports whether value is one of the field's options.
func (f Field) HasOption(value string) bool {
	for _, opt := range f.Options {
		if opt.Value == value {
			return true
		}
	}
	return false
}

func (f Field) clone() Field {
	out := f
	if f.Values != nil {
		out.Values = append([]string(nil), f.Values...)
	}
	if f.Sections != nil {
		out.Sections = append([]string(nil), f.Sections...)
	}
	if f.Options != nil {
		out.Options = append([]Option(nil), f.Options...)
	}
	if f.Files != nil {
		out.Files = append([]Attachment(nil), f.Files...)
	}
	return out
}
