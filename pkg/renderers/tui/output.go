package tui

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Encode serializes values in format.
func Encode(format OutputFormat, values map[string]any) ([]byte, error) {
	switch format {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	case OutputFormatJSON, "":
		return json.MarshalIndent(values, "", "  ")
	default:
		return nil, fmt.Errorf("tui: unknown output format %q", format)
	}
}

// ContentType reports the media type of format.
func ContentType(format OutputFormat) string {
	switch format {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

func flattenForm(values map[string]any) string {
	out := url.Values{}
	for key, val := range values {
		switch v := val.(type) {
		case []any:
			for _, item := range v {
				out.Add(key+"[]", fmt.Sprint(item))
			}
		case nil:
			out.Set(key, "")
		default:
			out.Set(key, fmt.Sprint(v))
		}
	}
	return out.Encode()
}

func prettyPrint(values map[string]any) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, key := range keys {
		switch v := values[key].(type) {
		case []any:
			for i, item := range v {
				fmt.Fprintf(&b, "%s[%d]=%v\n", key, i, item)
			}
		case nil:
			fmt.Fprintf(&b, "%s=\n", key)
		default:
			fmt.Fprintf(&b, "%s=%v\n", key, v)
		}
	}
	return b.String()
}
