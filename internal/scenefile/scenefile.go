// Package scenefile loads portal scenes described in TOML.
//
// A scene file has a [renderer] table holding portal.Config, [screen],
// [camera] and [effects] tables, and arrays of [[quad]] and [[portal]]
// tables. Angles are in degrees, colors are hex strings.
package scenefile

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/gogpu/gg"

	"github.com/gogpu/portal"
)

//go:embed default.toml
var defaultScene []byte

// File is the decoded form of a scene file.
type File struct {
	Renderer   portal.Config `toml:"renderer"`
	Screen     Screen        `toml:"screen"`
	Camera     Camera        `toml:"camera"`
	Effects    Effects       `toml:"effects"`
	Background string        `toml:"background"`
	Quads      []Quad        `toml:"quad"`
	Portals    []Portal      `toml:"portal"`
}

// Screen is the output resolution.
type Screen struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// Camera places the main camera.
type Camera struct {
	Position []float64 `toml:"position"`
	Yaw      float64   `toml:"yaw"`
	Pitch    float64   `toml:"pitch"`
	FovY     float64   `toml:"fov"`
	Near     float64   `toml:"near"`
	Far      float64   `toml:"far"`

	// Edge is the flat edge color. EdgeGradient, when set, takes over with
	// evenly spaced stops from the bottom of the screen to the top.
	Edge         string   `toml:"edge,omitempty"`
	EdgeGradient []string `toml:"edge_gradient,omitempty"`
}

// Effects switches the post effects of both cameras.
type Effects struct {
	EdgeDetect bool    `toml:"edge_detect"`
	Fog        bool    `toml:"fog"`
	FogColor   string  `toml:"fog_color,omitempty"`
	FogStart   float64 `toml:"fog_start"`
	FogEnd     float64 `toml:"fog_end"`
}

// Quad is a wall, or a floor when Floor is set.
type Quad struct {
	Position []float64 `toml:"position"`
	Yaw      float64   `toml:"yaw"`
	Pitch    float64   `toml:"pitch"`
	Width    float64   `toml:"width"`
	Height   float64   `toml:"height"`
	Color    string    `toml:"color"`
	Floor    bool      `toml:"floor,omitempty"`
}

// Portal is one portal side.
type Portal struct {
	Name     string    `toml:"name"`
	Channel  string    `toml:"channel"`
	Required int       `toml:"required,omitempty"`
	Position []float64 `toml:"position"`
	Yaw      float64   `toml:"yaw"`
	Pitch    float64   `toml:"pitch"`
	Width    float64   `toml:"width"`
	Height   float64   `toml:"height"`
	Color    string    `toml:"color"`

	Recursive      *bool  `toml:"recursive,omitempty"`
	Volumetric     bool   `toml:"volumetric,omitempty"`
	PauseRendering bool   `toml:"pause_rendering,omitempty"`
	Edge           string `toml:"edge,omitempty"`
}

// Defaults returns a File with every optional value filled in.
func Defaults() *File {
	return &File{
		Renderer:   portal.DefaultConfig(),
		Screen:     Screen{Width: 320, Height: 240},
		Camera:     Camera{Position: []float64{0, 0, 0}, FovY: 60, Near: 0.1, Far: 1000, Edge: "#000000"},
		Effects:    Effects{FogColor: "#b0b8c8", FogStart: 0.02, FogEnd: 0.06},
		Background: "#1a1a26",
	}
}

// Default returns the built-in demo scene.
func Default() *File {
	f, err := Parse(defaultScene)
	if err != nil {
		panic("scenefile: built-in scene: " + err.Error())
	}
	return f
}

// Load reads and parses the scene file at path.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scenefile: %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes a scene from TOML. Unknown keys are an error.
func Parse(data []byte) (*File, error) {
	f := Defaults()
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Encode writes f as TOML.
func (f *File) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(f)
}

// Validate checks the parts of the file Build relies on.
func (f *File) Validate() error {
	if err := f.Renderer.Validate(); err != nil {
		return err
	}
	if f.Screen.Width <= 0 || f.Screen.Height <= 0 {
		return fmt.Errorf("screen: invalid size %dx%d", f.Screen.Width, f.Screen.Height)
	}
	if f.Camera.Near <= 0 || f.Camera.Far <= f.Camera.Near || f.Camera.FovY <= 0 {
		return errors.New("camera: need 0 < near < far and a positive fov")
	}
	if _, err := vec3(f.Camera.Position); err != nil {
		return fmt.Errorf("camera: %w", err)
	}
	for i, q := range f.Quads {
		if _, err := vec3(q.Position); err != nil {
			return fmt.Errorf("quad %d: %w", i, err)
		}
	}
	seen := make(map[string]bool, len(f.Portals))
	for i, p := range f.Portals {
		switch {
		case p.Name == "":
			return fmt.Errorf("portal %d: missing name", i)
		case seen[p.Name]:
			return fmt.Errorf("portal %q: duplicate name", p.Name)
		case p.Channel == "":
			return fmt.Errorf("portal %q: missing channel", p.Name)
		}
		seen[p.Name] = true
		if _, err := vec3(p.Position); err != nil {
			return fmt.Errorf("portal %q: %w", p.Name, err)
		}
	}
	return nil
}

func vec3(v []float64) (mgl64.Vec3, error) {
	if len(v) != 3 {
		return mgl64.Vec3{}, fmt.Errorf("position needs 3 components, got %d", len(v))
	}
	return mgl64.Vec3{v[0], v[1], v[2]}, nil
}

// color parses a hex color, falling back to def when s is empty.
func color(s string, def gg.RGBA) gg.RGBA {
	if s == "" {
		return def
	}
	return gg.Hex(s)
}

func pose(pos []float64, yaw, pitch float64) portal.Pose {
	p, _ := vec3(pos)
	return portal.NewPose(p, mgl64.DegToRad(yaw), mgl64.DegToRad(pitch))
}
