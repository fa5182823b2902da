package html

import (
	"sync"

	"github.com/goliatone/go-formwizard/pkg/wizard"
)

// Surface records what the wizard asked to display: the current frame and
// the banner of every step. Renderer turns that state into markup.
type Surface struct {
	frame    wizard.Frame
	banners  map[int][]string
	scrolled int
}

var _ wizard.Surface = (*Surface)(nil)

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{banners: make(map[int][]string)}
}

// Render records f as the displayed frame.
func (s *Surface) Render(f wizard.Frame) {
	s.frame = f
}

// ShowErrors records the banner of step.
func (s *Surface) ShowErrors(step int, messages []string) {
	s.banners[step] = append([]string(nil), messages...)
}

// ClearErrors drops the banner of step.
func (s *Surface) ClearErrors(step int) {
	delete(s.banners, step)
}

// ScrollTo records the last step brought into view.
func (s *Surface) ScrollTo(step int) {
	s.scrolled = step
}

// Frame returns the displayed frame.
func (s *Surface) Frame() wizard.Frame {
	return s.frame
}

// Banner returns the messages shown on step.
func (s *Surface) Banner(step int) []string {
	return append([]string(nil), s.banners[step]...)
}

// Scrolled returns the step last scrolled to, or 0.
func (s *Surface) Scrolled() int {
	return s.scrolled
}

var (
	defaultOnce     sync.Once
	defaultRenderer *Renderer
	defaultErr      error
)

// Markup renders the chrome of the displayed frame with the built-in
// templates.
func (s *Surface) Markup() (string, error) {
	defaultOnce.Do(func() {
		defaultRenderer, defaultErr = New()
	})
	if defaultErr != nil {
		return "", defaultErr
	}
	return defaultRenderer.Chrome(s)
}
