package config

// StageConfig is the root config for stage JSON files
type StageConfig struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Map     string `json:"map"`     // CSV grid, relative to the config root
	Tileset string `json:"tileset"` // tile properties JSON, relative to the config root

	// Layout is an inline ASCII map used when Map is empty.
	// Legend maps each character to a tile index; "#" is tile 0 unless overridden.
	Layout []string       `json:"layout,omitempty"`
	Legend map[string]int `json:"legend,omitempty"`

	// TileWidth and TileHeight override the physics tile size when set
	TileWidth  int `json:"tileWidth,omitempty"`
	TileHeight int `json:"tileHeight,omitempty"`

	// PlayerSpawn is optional; without it the first spawn tile is used
	PlayerSpawn *PositionConfig    `json:"playerSpawn,omitempty"`
	Enemies     []EnemySpawnConfig `json:"enemies"`
}

type PositionConfig struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type EnemySpawnConfig struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// TilesetConfig is the tile properties JSON.
// Default is merged under every entry of Tiles, keyed by tile index.
type TilesetConfig struct {
	Default TilePropsConfig            `json:"default"`
	Tiles   map[string]TilePropsConfig `json:"tiles"`
}

// TilePropsConfig uses pointers so an entry can leave a field to the default block
type TilePropsConfig struct {
	Solid    *bool    `json:"solid,omitempty"`
	OneWay   *bool    `json:"oneWay,omitempty"`
	Deadly   *bool    `json:"deadly,omitempty"`
	Spawn    *bool    `json:"spawn,omitempty"`
	Friction *float64 `json:"friction,omitempty"`
}

// Merge returns p with unset fields taken from base
func (p TilePropsConfig) Merge(base TilePropsConfig) TilePropsConfig {
	if p.Solid == nil {
		p.Solid = base.Solid
	}
	if p.OneWay == nil {
		p.OneWay = base.OneWay
	}
	if p.Deadly == nil {
		p.Deadly = base.Deadly
	}
	if p.Spawn == nil {
		p.Spawn = base.Spawn
	}
	if p.Friction == nil {
		p.Friction = base.Friction
	}
	return p
}
