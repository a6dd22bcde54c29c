package portal

import (
	"fmt"
	"slices"
	"sync"

	"github.com/zyedidia/generic/mapset"
)

// DefaultRequired is the number of portals a channel needs to activate when
// Register or Deregister is called with required <= 0.
const DefaultRequired = 2

// PortalObserver is notified when portals change state. Calls are made
// synchronously, in subscription order, after the registry lock is released.
type PortalObserver interface {
	PortalEnabled(p *Portal)
	PortalDisabled(p *Portal)
}

type channel struct {
	members mapset.Set[*Portal]
	order   []*Portal // registration order
	active  bool
}

// Registry tracks portal channels and the flat list of active portals.
//
// A channel activates when it holds exactly its required number of portals:
// every member is linked and appended to the active list. It deactivates as
// soon as a removal drops it below that number.
//
// Example:
//
//	reg := portal.NewRegistry()
//	_ = reg.Register("blue", a, 2)
//	_ = reg.Register("blue", b, 2) // a and b are now linked and active
type Registry struct {
	mu        sync.RWMutex
	channels  map[string]*channel
	active    []*Portal
	observers []PortalObserver
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{channels: make(map[string]*channel)}
}

type event struct {
	p       *Portal
	enabled bool
}

func normalizeRequired(required int) int {
	if required <= 0 {
		return DefaultRequired
	}
	return required
}

// Subscribe adds an observer.
func (r *Registry) Subscribe(o PortalObserver) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, o)
}

// Register adds p to channel. It returns a *ChannelFullError, and changes
// nothing, when the channel already holds required portals.
func (r *Registry) Register(name string, p *Portal, required int) error {
	required = normalizeRequired(required)

	r.mu.Lock()
	ch := r.channels[name]
	if ch == nil {
		ch = &channel{members: mapset.New[*Portal]()}
		r.channels[name] = ch
	}
	if ch.members.Has(p) {
		r.mu.Unlock()
		return nil
	}
	if ch.members.Size() >= required {
		r.mu.Unlock()
		err := &ChannelFullError{Channel: name, Portal: p.String(), Required: required}
		Logger().Warn("portal: channel full", "channel", name, "portal", p.String(), "required", required)
		return err
	}

	ch.members.Put(p)
	ch.order = append(ch.order, p)

	var events []event
	if ch.members.Size() == required {
		ch.active = true
		for i, m := range ch.order {
			if err := m.Enable(linkFor(ch.order, i)); err != nil {
				r.mu.Unlock()
				return fmt.Errorf("portal: activate channel %q: %w", name, err)
			}
			r.active = append(r.active, m)
			events = append(events, event{p: m, enabled: true})
		}
		Logger().Info("portal: channel activated", "channel", name, "portals", len(ch.order))
	}
	observers := slices.Clone(r.observers)
	r.mu.Unlock()

	notify(observers, events)
	return nil
}

// linkFor returns the portal members[i] links to: the first other member,
// or itself when alone.
func linkFor(members []*Portal, i int) *Portal {
	for j, m := range members {
		if j != i {
			return m
		}
	}
	return members[i]
}

// Deregister removes p from channel and from the active list. It reports
// whether p was a member. When the channel drops below required, the
// remaining members are disabled and leave the active list.
func (r *Registry) Deregister(name string, p *Portal, required int) bool {
	required = normalizeRequired(required)

	r.mu.Lock()
	ch := r.channels[name]
	if ch == nil || !ch.members.Has(p) {
		r.mu.Unlock()
		Logger().Warn("portal: deregister from unknown channel member", "channel", name, "portal", p.String())
		return false
	}

	ch.members.Remove(p)
	ch.order = slices.DeleteFunc(ch.order, func(m *Portal) bool { return m == p })
	wasEnabled := p.IsEnabled()
	r.removeActive(p)
	p.Disable()

	var events []event
	if wasEnabled {
		events = append(events, event{p: p})
	}
	if ch.active && ch.members.Size() < required {
		ch.active = false
		for _, m := range ch.order {
			r.removeActive(m)
			if m.IsEnabled() {
				m.Disable()
				events = append(events, event{p: m})
			}
		}
		Logger().Info("portal: channel deactivated", "channel", name, "remaining", len(ch.order))
	}
	if ch.members.Size() == 0 {
		delete(r.channels, name)
	}
	observers := slices.Clone(r.observers)
	r.mu.Unlock()

	notify(observers, events)
	return true
}

func (r *Registry) removeActive(p *Portal) {
	r.active = slices.DeleteFunc(r.active, func(m *Portal) bool { return m == p })
}

func notify(observers []PortalObserver, events []event) {
	for _, e := range events {
		for _, o := range observers {
			if e.enabled {
				o.PortalEnabled(e.p)
			} else {
				o.PortalDisabled(e.p)
			}
		}
	}
}

// Active returns a copy of the active portals in registration order.
func (r *Registry) Active() []*Portal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.active)
}

// IsChannelActive reports whether channel has activated.
func (r *Registry) IsChannelActive(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ch := r.channels[name]
	return ch != nil && ch.active
}

// Channel returns the members of channel in registration order.
func (r *Registry) Channel(name string) []*Portal {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if ch := r.channels[name]; ch != nil {
		return slices.Clone(ch.order)
	}
	return nil
}

// Validate checks that every active portal is enabled and linked.
func (r *Registry) Validate() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, p := range r.active {
		if p.Other == nil || !p.IsEnabled() {
			return fmt.Errorf("%w: %s", ErrMissingLink, p)
		}
	}
	return nil
}
