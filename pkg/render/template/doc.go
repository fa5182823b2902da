// Package template defines the template rendering contract used by the HTML
// surface, keeping the engine swappable.
package template
