package config

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	"github.com/murphybt/massim-2020/internal/engine"
)

// LoadTerrain decodes a bitmap into an engine.TerrainProvider: black pixels
// become OBSTACLE, red pixels become GOAL, everything else EMPTY, matching
// the original's terrainColors map (black->OBSTACLE, white->EMPTY,
// red->GOAL). An empty path yields a provider that returns EMPTY
// everywhere (a fully open grid), matching how an omitted terrain_bitmap
// behaves.
func LoadTerrain(path string) (engine.TerrainProvider, error) {
	if path == "" {
		return func(x, y int) engine.Terrain { return engine.Empty }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open terrain bitmap: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode terrain bitmap: %w", err)
	}

	bounds := img.Bounds()
	return func(x, y int) engine.Terrain {
		p := image.Pt(bounds.Min.X+x, bounds.Min.Y+y)
		if !p.In(bounds) {
			return engine.Empty
		}
		r, g, b, _ := img.At(p.X, p.Y).RGBA()
		switch {
		case r < 0x4000 && g < 0x4000 && b < 0x4000:
			return engine.Obstacle
		case r > 0x8000 && g < 0x4000 && b < 0x4000:
			return engine.Goal
		default:
			return engine.Empty
		}
	}, nil
}
