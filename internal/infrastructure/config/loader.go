package config

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// GameConfig holds all loaded configurations
type GameConfig struct {
	Physics  *PhysicsConfig
	Entities *EntitiesConfig
}

// DefaultGameConfig returns the stock physics and entities
func DefaultGameConfig() *GameConfig {
	return &GameConfig{
		Physics:  DefaultPhysics(),
		Entities: DefaultEntities(),
	}
}

// Loader loads game configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// FS returns the filesystem the loader reads from
func (l *Loader) FS() fs.FS {
	return l.fsys
}

// LoadPhysics loads physics.json over the defaults.
// Keys missing from the file keep their default value.
func (l *Loader) LoadPhysics() (*PhysicsConfig, error) {
	data, err := fs.ReadFile(l.fsys, "physics.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read physics.json: %w", err)
	}

	cfg := DefaultPhysics()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse physics.json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate physics.json: %w", err)
	}

	return cfg, nil
}

// LoadEntities loads entities.json
func (l *Loader) LoadEntities() (*EntitiesConfig, error) {
	data, err := fs.ReadFile(l.fsys, "entities.json")
	if err != nil {
		return nil, fmt.Errorf("failed to read entities.json: %w", err)
	}

	var cfg EntitiesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse entities.json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to validate entities.json: %w", err)
	}

	return &cfg, nil
}

// LoadStage loads a stage JSON file
func (l *Loader) LoadStage(name string) (*StageConfig, error) {
	path := "stages/" + name + ".json"
	data, err := fs.ReadFile(l.fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stage %s: %w", name, err)
	}

	var cfg StageConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stage %s: %w", name, err)
	}
	if cfg.ID == "" {
		cfg.ID = name
	}

	return &cfg, nil
}

// LoadTileset loads a tile properties file.
// A missing file yields an empty tileset, so every tile uses the defaults.
func (l *Loader) LoadTileset(path string) (*TilesetConfig, error) {
	cfg := &TilesetConfig{Tiles: map[string]TilePropsConfig{}}
	if path == "" {
		return cfg, nil
	}

	data, err := fs.ReadFile(l.fsys, path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tileset %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tileset %s: %w", path, err)
	}
	for key := range cfg.Tiles {
		if _, err := strconv.Atoi(key); err != nil {
			return nil, fmt.Errorf("failed to parse tileset %s: tile key %q is not an index", path, key)
		}
	}

	return cfg, nil
}

// LoadGrid loads a CSV tile grid, -1 marking empty cells
func (l *Loader) LoadGrid(path string) ([][]int, error) {
	f, err := l.fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open map %s: %w", path, err)
	}
	defer f.Close()

	grid, err := ParseGrid(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse map %s: %w", path, err)
	}
	return grid, nil
}

// ParseGrid reads a CSV grid. Every row must have the same number of cells.
func ParseGrid(r io.Reader) ([][]int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}

	grid := make([][]int, 0, len(records))
	for y, record := range records {
		row := make([]int, len(record))
		for x, cell := range record {
			v, err := strconv.Atoi(strings.TrimSpace(cell))
			if err != nil {
				return nil, fmt.Errorf("row %d col %d: %w", y+1, x+1, err)
			}
			row[x] = v
		}
		grid = append(grid, row)
	}
	return grid, nil
}

// LoadAll loads all base configurations (physics, entities)
func (l *Loader) LoadAll() (*GameConfig, error) {
	physics, err := l.LoadPhysics()
	if err != nil {
		return nil, err
	}

	entities, err := l.LoadEntities()
	if err != nil {
		return nil, err
	}

	return &GameConfig{
		Physics:  physics,
		Entities: entities,
	}, nil
}
