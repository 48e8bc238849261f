package tiled

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	"github.com/lafriks/go-tiled"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

const (
	collisionLayer = "collision"
	spawnGroup     = "spawns"
	playerObject   = "player"
)

// ErrNoTileLayer is returned for maps without any tile layer
var ErrNoTileLayer = errors.New("map has no tile layer")

// Map is a TMX map reduced to the same data a JSON stage provides
type Map struct {
	Stage   config.StageConfig
	Grid    [][]int
	Tileset config.TilesetConfig
}

// Load parses a TMX file from fsys.
// The grid comes from the layer named "collision", or the first layer.
// Tile indices are 0-based across tilesets (firstgid - 1 + local id), -1 for empty cells.
func Load(fsys fs.FS, tmxPath string) (*Map, error) {
	levelMap, err := tiled.LoadFile(tmxPath, tiled.WithFileSystem(fsys))
	if err != nil {
		return nil, fmt.Errorf("failed to load TMX %s: %w", tmxPath, err)
	}

	layer := pickLayer(levelMap.Layers)
	if layer == nil {
		return nil, fmt.Errorf("failed to load TMX %s: %w", tmxPath, ErrNoTileLayer)
	}

	tileset, err := buildTileset(levelMap.Tilesets)
	if err != nil {
		return nil, fmt.Errorf("failed to load TMX %s: %w", tmxPath, err)
	}

	id := strings.TrimSuffix(path.Base(tmxPath), path.Ext(tmxPath))
	name := id
	if levelMap.Properties != nil {
		if n := levelMap.Properties.GetString("name"); n != "" {
			name = n
		}
	}

	m := &Map{
		Stage: config.StageConfig{
			ID:         id,
			Name:       name,
			TileWidth:  levelMap.TileWidth,
			TileHeight: levelMap.TileHeight,
		},
		Grid:    buildGrid(layer, levelMap.Width, levelMap.Height),
		Tileset: tileset,
	}
	readSpawns(levelMap.ObjectGroups, &m.Stage)

	return m, nil
}

func pickLayer(layers []*tiled.Layer) *tiled.Layer {
	for _, layer := range layers {
		if layer.Name == collisionLayer {
			return layer
		}
	}
	if len(layers) > 0 {
		return layers[0]
	}
	return nil
}

func buildGrid(layer *tiled.Layer, width, height int) [][]int {
	grid := make([][]int, height)
	for y := 0; y < height; y++ {
		grid[y] = make([]int, width)
		for x := 0; x < width; x++ {
			grid[y][x] = tileIndex(layer, y*width+x)
		}
	}
	return grid
}

func tileIndex(layer *tiled.Layer, i int) int {
	if i >= len(layer.Tiles) {
		return -1
	}
	tile := layer.Tiles[i]
	if tile == nil || tile.IsNil() || tile.Tileset == nil {
		return -1
	}
	return int(tile.Tileset.FirstGID) - 1 + int(tile.ID)
}

// buildTileset reads the solid, oneWay, deadly, spawn and friction tile properties
func buildTileset(tilesets []*tiled.Tileset) (config.TilesetConfig, error) {
	cfg := config.TilesetConfig{Tiles: map[string]config.TilePropsConfig{}}
	for _, ts := range tilesets {
		for _, tile := range ts.Tiles {
			props, err := tileProps(tile.Properties)
			if err != nil {
				return cfg, fmt.Errorf("tile %d of %s: %w", tile.ID, ts.Name, err)
			}
			idx := int(ts.FirstGID) - 1 + int(tile.ID)
			cfg.Tiles[strconv.Itoa(idx)] = props
		}
	}
	return cfg, nil
}

func tileProps(properties tiled.Properties) (config.TilePropsConfig, error) {
	var props config.TilePropsConfig
	for _, p := range properties {
		switch p.Name {
		case "solid":
			props.Solid = boolProp(p.Value)
		case "oneWay":
			props.OneWay = boolProp(p.Value)
		case "deadly":
			props.Deadly = boolProp(p.Value)
		case "spawn":
			props.Spawn = boolProp(p.Value)
		case "friction":
			f, err := strconv.ParseFloat(p.Value, 64)
			if err != nil {
				return props, fmt.Errorf("invalid friction %q: %w", p.Value, err)
			}
			// Tiled writes 0 for an unset float
			if f != 0 {
				props.Friction = &f
			}
		}
	}
	return props, nil
}

func boolProp(v string) *bool {
	b := v == "true"
	return &b
}

// readSpawns takes the player and enemy positions from the "spawns" object group.
// An object named "player" places the player, any other name is an enemy kind.
func readSpawns(groups []*tiled.ObjectGroup, stage *config.StageConfig) {
	for _, og := range groups {
		if og.Name != spawnGroup {
			continue
		}
		for _, o := range og.Objects {
			switch o.Name {
			case "":
			case playerObject:
				stage.PlayerSpawn = &config.PositionConfig{X: o.X, Y: o.Y}
			default:
				stage.Enemies = append(stage.Enemies, config.EnemySpawnConfig{Type: o.Name, X: o.X, Y: o.Y})
			}
		}
	}
}
