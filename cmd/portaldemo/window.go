package main

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/portal"
)

const (
	moveSpeed = 0.08
	turnSpeed = 0.03

	// Window pixels per rendered pixel.
	pixelScale = 2
)

var errQuit = errors.New("quit")

// game walks the main camera through the scene.
type game struct {
	app        *app
	yaw, pitch float64
	err        error
}

func runWindow(a *app) error {
	g := &game{
		app:   a,
		yaw:   mgl64.DegToRad(a.file.Camera.Yaw),
		pitch: mgl64.DegToRad(a.file.Camera.Pitch),
	}
	w, h := a.size()
	ebiten.SetWindowSize(w*pixelScale, h*pixelScale)
	ebiten.SetWindowTitle("portaldemo")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(g)
	if errors.Is(err, errQuit) {
		return g.err
	}
	return err
}

func (g *game) Update() error {
	if g.err != nil {
		return errQuit
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return errQuit
	}

	if ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		g.yaw += turnSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		g.yaw -= turnSpeed
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		g.pitch = math.Min(g.pitch+turnSpeed, math.Pi/2-0.01)
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		g.pitch = math.Max(g.pitch-turnSpeed, -math.Pi/2+0.01)
	}

	flat := portal.NewPose(mgl64.Vec3{}, g.yaw, 0)
	forward, right := flat.Forward(), flat.Rotation.Rotate(mgl64.Vec3{1, 0, 0})
	var move mgl64.Vec3
	if ebiten.IsKeyPressed(ebiten.KeyW) {
		move = move.Add(forward)
	}
	if ebiten.IsKeyPressed(ebiten.KeyS) {
		move = move.Sub(forward)
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) {
		move = move.Add(right)
	}
	if ebiten.IsKeyPressed(ebiten.KeyA) {
		move = move.Sub(right)
	}
	speed := moveSpeed
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		speed *= 3
	}
	if move.Len() > 0 {
		move = move.Normalize().Mul(speed)
	}

	cam := g.app.world.Main
	cam.SetPose(portal.NewPose(cam.Pose().Position.Add(move), g.yaw, g.pitch))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.err != nil {
		return
	}
	if err := g.app.frame(); err != nil {
		g.err = err
		return
	}
	screen.WritePixels(g.app.screen.Pixels())
}

// Layout renders at a fraction of the window size. A size change is
// published to the renderer and the screen targets between frames.
func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := max(1, outsideWidth/pixelScale)
	h := max(1, outsideHeight/pixelScale)
	if cw, ch := g.app.size(); g.err == nil && (cw != w || ch != h) {
		if err := g.app.hooks.FireResolutionChanged(w, h); err != nil {
			g.err = err
		}
	}
	return g.app.size()
}
