package diagram

import "github.com/ritzau/diagram-canvas/pkg/render"

// Option configures a Surface.
type Option func(*Surface)

// WithTheme sets the rendering theme.
func WithTheme(theme render.Theme) Option {
	return func(s *Surface) {
		s.renderer.SetTheme(theme)
	}
}

// WithObserver registers an observer. It may be given more than once.
func WithObserver(o Observer) Option {
	return func(s *Surface) {
		if o != nil {
			s.observers = append(s.observers, o)
		}
	}
}

// WithRawPointerCoordinates hit-tests pointer positions as given, without
// undoing the viewport transform. Once the view is zoomed or panned the
// hit regions no longer line up with what is drawn.
func WithRawPointerCoordinates() Option {
	return func(s *Surface) {
		s.rawPointer = true
	}
}
