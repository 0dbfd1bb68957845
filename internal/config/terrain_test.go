package config

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/murphybt/massim-2020/internal/engine"
)

func TestLoadTerrainEmptyPathIsFullyOpen(t *testing.T) {
	provider, err := LoadTerrain("")
	if err != nil {
		t.Fatalf("LoadTerrain(\"\"): %v", err)
	}
	if got := provider(5, 5); got != engine.Empty {
		t.Fatalf("empty-path provider(5,5) = %v, want EMPTY", got)
	}
}

func TestLoadTerrainDecodesColors(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.RGBA{0, 0, 0, 255})       // black -> obstacle
	img.Set(1, 0, color.RGBA{255, 0, 0, 255})     // red -> goal
	img.Set(2, 0, color.RGBA{200, 200, 200, 255}) // light gray -> empty

	path := t.TempDir() + "/terrain.png"
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create temp png: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	f.Close()

	provider, err := LoadTerrain(path)
	if err != nil {
		t.Fatalf("LoadTerrain: %v", err)
	}
	if got := provider(0, 0); got != engine.Obstacle {
		t.Fatalf("provider(0,0) = %v, want OBSTACLE", got)
	}
	if got := provider(1, 0); got != engine.Goal {
		t.Fatalf("provider(1,0) = %v, want GOAL", got)
	}
	if got := provider(2, 0); got != engine.Empty {
		t.Fatalf("provider(2,0) = %v, want EMPTY", got)
	}
}
