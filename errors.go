package portal

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrMissingLink is returned when an enabled portal has no linked side.
// It is reported at configuration time, never during rendering.
var ErrMissingLink = errors.New("portal: enabled portal has no linked side")

// ErrNilCamera is returned by NewRenderer when a camera is missing.
var ErrNilCamera = errors.New("portal: nil camera")

// ChannelFullError is returned when a portal is registered to a channel that
// already holds its required number of portals.
type ChannelFullError struct {
	Channel  string
	Portal   string
	Required int
}

func (e *ChannelFullError) Error() string {
	return fmt.Sprintf("portal: channel %q already holds %d portals, rejecting %q", e.Channel, e.Required, e.Portal)
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "portal: config " + e.Field + ": " + e.Reason
}

// FormatMismatchError is returned when the pool's depth/normal format differs
// from the main camera's buffer format.
type FormatMismatchError struct {
	Camera gputypes.TextureFormat
	Pool   gputypes.TextureFormat
}

func (e *FormatMismatchError) Error() string {
	return fmt.Sprintf("portal: depth-normals format mismatch: camera %v, pool %v", e.Camera, e.Pool)
}
