package form

// Accessor reads named fields. Implementations must tolerate absent names:
// lookups return zero values rather than failing.
type Accessor interface {
	// Field returns the first element carrying name.
	Field(name string) (Field, bool)
	// Fields returns every element carrying name (radio and checkbox groups).
	Fields(name string) []Field
	// RadioValue returns the value of the checked member of a radio group, or
	// "" when none is checked.
	RadioValue(name string) string
	// HasFile reports whether at least one file is attached to f.
	HasFile(f Field) bool
}

// Value reads the current value of name in the shape visibility rules and
// submissions expect: the checked member for radio groups, a bool for
// checkboxes, a string slice for multi-selects and the raw value otherwise.
// Absent fields yield nil.
func Value(a Accessor, name string) any {
	if a == nil {
		return nil
	}
	f, ok := a.Field(name)
	if !ok {
		return nil
	}
	switch f.Kind {
	case KindRadio:
		return a.RadioValue(name)
	case KindCheckbox:
		return f.Checked
	case KindMultiSelect:
		out := make([]any, len(f.Values))
		for i, v := range f.Values {
			out[i] = v
		}
		return out
	case KindFile:
		names := make([]any, 0, len(f.Files))
		for _, file := range f.Files {
			names = append(names, file.Name)
		}
		return names
	default:
		return f.Value
	}
}

// StringValue returns the raw value of name, or "" when absent.
func StringValue(a Accessor, name string) string {
	if a == nil {
		return ""
	}
	f, ok := a.Field(name)
	if !ok {
		return ""
	}
	return f.Value
}

// Checked reports whether the first element named name is checked.
func Checked(a Accessor, name string) bool {
	if a == nil {
		return false
	}
	f, ok := a.Field(name)
	return ok && f.Checked
}

// FileAttached reports whether the file input named name carries a file.
func FileAttached(a Accessor, name string) bool {
	if a == nil {
		return false
	}
	f, ok := a.Field(name)
	if !ok {
		return false
	}
	return a.HasFile(f)
}
