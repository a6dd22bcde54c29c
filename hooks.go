package portal

import (
	"errors"
	"sync"
)

// Hooks is the event bus between the host engine and the renderer.
// Handlers run synchronously in registration order.
type Hooks struct {
	mu        sync.Mutex
	preRender []func() error
	resize    []func(width, height int) error
}

// OnPreRender registers fn to run before the main camera renders.
func (h *Hooks) OnPreRender(fn func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.preRender = append(h.preRender, fn)
}

// OnResolutionChanged registers fn to run when the screen size changes.
func (h *Hooks) OnResolutionChanged(fn func(width, height int) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resize = append(h.resize, fn)
}

// FirePreRender runs every pre-render handler. All handlers run even when
// one fails; the errors are joined.
func (h *Hooks) FirePreRender() error {
	h.mu.Lock()
	handlers := append([]func() error(nil), h.preRender...)
	h.mu.Unlock()

	var errs []error
	for _, fn := range handlers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FireResolutionChanged runs every resolution handler. It must be called
// between frames.
func (h *Hooks) FireResolutionChanged(width, height int) error {
	h.mu.Lock()
	handlers := append([]func(int, int) error(nil), h.resize...)
	h.mu.Unlock()

	var errs []error
	for _, fn := range handlers {
		if err := fn(width, height); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
