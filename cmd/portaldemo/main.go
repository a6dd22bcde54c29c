// Command portaldemo renders a portal scene, either headless to a PNG or
// interactively in a window.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"log/slog"
	"os"

	"github.com/gogpu/portal"
	"github.com/gogpu/portal/internal/scenefile"
	"github.com/gogpu/portal/internal/sheet"
	"github.com/gogpu/portal/render"
)

func main() {
	var (
		scenePath = flag.String("scene", "", "scene file (TOML); the built-in room when empty")
		output    = flag.String("out", "portal.png", "output PNG for the main view")
		sheetPath = flag.String("sheet", "", "also write a contact sheet of portal render targets")
		frames    = flag.Int("frames", 1, "frames to render before writing output")
		window    = flag.Bool("window", false, "open an interactive window instead of writing a PNG")
		debug     = flag.Bool("debug", false, "log render steps")
	)
	flag.Parse()

	if *debug {
		portal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	f := scenefile.Default()
	if *scenePath != "" {
		var err error
		if f, err = scenefile.Load(*scenePath); err != nil {
			log.Fatalf("Failed to load scene: %v", err)
		}
	}

	a, err := newApp(f)
	if err != nil {
		log.Fatalf("Failed to build scene: %v", err)
	}
	err = run(a, *window, *frames, *output, *sheetPath)
	a.close()
	if err != nil {
		log.Fatal(err)
	}
}

// run drives a either in a window or headless, writing the main view and
// optionally a contact sheet.
func run(a *app, window bool, frames int, output, sheetPath string) error {
	if window {
		if err := runWindow(a); err != nil {
			return fmt.Errorf("window: %w", err)
		}
		return nil
	}

	for i := 0; i < max(1, frames); i++ {
		if err := a.frame(); err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
	}
	if err := savePNG(output, a.screen.Image()); err != nil {
		return fmt.Errorf("failed to save: %w", err)
	}
	if sheetPath != "" {
		if err := saveSheet(sheetPath, a.world.Pool); err != nil {
			return fmt.Errorf("failed to save sheet: %w", err)
		}
	}

	printStats(os.Stdout, a.renderer.LastFrame(), a.world.Registry, output)
	return nil
}

func saveSheet(path string, pool *render.TargetPool) error {
	var targets []render.RenderTarget
	for i := 0; i < pool.Len(); i++ {
		if pair := pool.Slot(i); pair != nil {
			targets = append(targets, pair.Color)
		}
	}
	if mask, err := pool.Mask(); err == nil {
		targets = append(targets, mask)
	}
	img := sheet.Compose(targets, 160)
	if img == nil {
		log.Printf("No render targets for a contact sheet")
		return nil
	}
	return savePNG(path, img)
}

func savePNG(path string, img image.Image) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
