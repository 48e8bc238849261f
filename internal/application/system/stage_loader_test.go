package system

import (
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/younwookim/supercat/internal/infrastructure/config"
)

func boolPtr(v bool) *bool { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBuildTileset(t *testing.T) {
	cfg := &config.TilesetConfig{
		Default: config.TilePropsConfig{Solid: boolPtr(false), Friction: floatPtr(1.0)},
		Tiles: map[string]config.TilePropsConfig{
			"0": {Solid: boolPtr(true)},
			"1": {Solid: boolPtr(true), Friction: floatPtr(0.35)},
			"2": {OneWay: boolPtr(true)},
			"3": {Spawn: boolPtr(true), Deadly: boolPtr(true)},
		},
	}

	ts, err := BuildTileset(cfg)
	require.NoError(t, err)

	assert.Equal(t, entity.TileProps{Solid: true, Friction: 1.0}, ts.Get(0))
	assert.Equal(t, entity.TileProps{Solid: true, Friction: 0.35}, ts.Get(1))
	assert.Equal(t, entity.TileProps{OneWay: true, Friction: 1.0}, ts.Get(2))
	assert.Equal(t, entity.TileProps{Spawn: true, Deadly: true, Friction: 1.0}, ts.Get(3))
	assert.Equal(t, entity.DefaultTileProps(), ts.Get(99))
	assert.Equal(t, []int{0, 1}, ts.SolidIndices())
	assert.Equal(t, []int{2}, ts.OneWayIndices())
}

func TestBuildTileset_UnsetFrictionDefaults(t *testing.T) {
	cfg := &config.TilesetConfig{
		Tiles: map[string]config.TilePropsConfig{"5": {Solid: boolPtr(true)}},
	}

	ts, err := BuildTileset(cfg)
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultFriction, ts.Get(5).Friction)
}

func TestBuildTileset_Errors(t *testing.T) {
	tests := []struct {
		name  string
		tiles map[string]config.TilePropsConfig
	}{
		{"non numeric key", map[string]config.TilePropsConfig{"a": {}}},
		{"negative key", map[string]config.TilePropsConfig{"-2": {}}},
		{"negative friction", map[string]config.TilePropsConfig{"0": {Friction: floatPtr(-1)}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildTileset(&config.TilesetConfig{Tiles: tt.tiles})
			assert.Error(t, err)
		})
	}
}

func TestBuildTileset_Nil(t *testing.T) {
	ts, err := BuildTileset(nil)
	require.NoError(t, err)
	assert.Empty(t, ts.Tiles)
}

func TestGridFromLayout(t *testing.T) {
	t.Run("default legend", func(t *testing.T) {
		grid := GridFromLayout([]string{
			"#..#",
			"####",
		}, nil)

		assert.Equal(t, [][]int{
			{0, -1, -1, 0},
			{0, 0, 0, 0},
		}, grid)
	})

	t.Run("custom legend and short rows", func(t *testing.T) {
		grid := GridFromLayout([]string{
			"#=",
			"#~~#",
		}, map[string]int{"#": 0, "=": 2, "~": 1})

		assert.Equal(t, [][]int{
			{0, 2, -1, -1},
			{0, 1, 1, 0},
		}, grid)
	})
}

func TestLoadStage(t *testing.T) {
	grid := [][]int{
		{-1, -1, -1},
		{-1, 3, -1},
		{0, 0, 0},
	}
	tileset := entity.NewTileset(map[int]entity.TileProps{
		0: {Solid: true, Friction: 1},
		3: {Spawn: true, Friction: 1},
	})

	t.Run("configured spawn wins", func(t *testing.T) {
		cfg := &config.StageConfig{
			ID:          "s",
			PlayerSpawn: &config.PositionConfig{X: 5, Y: 6},
			Enemies:     []config.EnemySpawnConfig{{Type: "slime", X: 64, Y: 10}},
		}

		stage := LoadStage(cfg, grid, tileset, 32, 32)

		require.NotNil(t, stage)
		assert.Equal(t, "s", stage.Name)
		assert.Equal(t, 3, stage.Width)
		assert.Equal(t, 3, stage.Height)
		assert.Equal(t, 32, stage.TileW)
		assert.Equal(t, 5.0, stage.SpawnX)
		assert.Equal(t, 6.0, stage.SpawnY)
		assert.Equal(t, []entity.EnemySpawn{{Kind: "slime", X: 64, Y: 10}}, stage.Enemies)
	})

	t.Run("spawn tile", func(t *testing.T) {
		stage := LoadStage(&config.StageConfig{Name: "named"}, grid, tileset, 32, 32)

		assert.Equal(t, "named", stage.Name)
		assert.Equal(t, 32.0, stage.SpawnX)
		assert.Equal(t, 32.0, stage.SpawnY)
	})

	t.Run("fallback spawn", func(t *testing.T) {
		stage := LoadStage(&config.StageConfig{}, grid, entity.NewTileset(nil), 16, 16)

		assert.Equal(t, 48.0, stage.SpawnX)
		assert.Equal(t, 32.0, stage.SpawnY)
	})

	t.Run("tile size override", func(t *testing.T) {
		stage := LoadStage(&config.StageConfig{TileWidth: 16, TileHeight: 24}, grid, tileset, 32, 32)

		assert.Equal(t, 16, stage.TileW)
		assert.Equal(t, 24, stage.TileH)
	})
}

func TestLoadStageFromConfig(t *testing.T) {
	loader := config.NewLoader("../../../cmd/supercat/configs")

	stage, err := LoadStageFromConfig(loader, "level1", config.DefaultPhysics())
	require.NoError(t, err)

	assert.Equal(t, "Level 1", stage.Name)
	assert.Equal(t, 40, stage.Width)
	assert.Equal(t, 17, stage.Height)
	assert.Equal(t, 96.0, stage.SpawnX)
	assert.Equal(t, 416.0, stage.SpawnY)
	assert.Len(t, stage.Enemies, 2)
	assert.NotEmpty(t, stage.SolidRects())
	assert.NotEmpty(t, stage.OneWayRects())
	assert.Equal(t, 0.35, stage.Tileset.Get(1).Friction)
}

func TestLoadStageFromConfig_Layout(t *testing.T) {
	fsys := fstest.MapFS{
		"stages/ascii.json": {Data: []byte(`{"layout": ["#  #", "####"]}`)},
	}
	loader := config.NewFSLoader(fsys, "configs")

	stage, err := LoadStageFromConfig(loader, "ascii", config.DefaultPhysics())
	require.NoError(t, err)

	assert.Equal(t, "ascii", stage.Name)
	assert.Len(t, stage.SolidRects(), 6, "no tileset means every tile is solid")
}

func TestLoadStageFromConfig_NoMap(t *testing.T) {
	fsys := fstest.MapFS{
		"stages/empty.json": {Data: []byte(`{}`)},
	}
	loader := config.NewFSLoader(fsys, "configs")

	_, err := LoadStageFromConfig(loader, "empty", config.DefaultPhysics())
	assert.Error(t, err)
}

func TestLoadStageFromTMX(t *testing.T) {
	physics := config.DefaultPhysics()

	stage, err := LoadStageFromTMX(os.DirFS("../../infrastructure/tiled/testdata"), "level.tmx", physics)

	require.NoError(t, err)
	assert.Equal(t, "Test Level", stage.Name)
	assert.Equal(t, 6, stage.Width)
	assert.Equal(t, 4, stage.Height)
	assert.Equal(t, 32.0, stage.SpawnX)
	assert.Equal(t, 32.0, stage.SpawnY)
	require.Len(t, stage.Enemies, 1)
	assert.Equal(t, entity.EnemySpawn{Kind: "slime", X: 96, Y: 68}, stage.Enemies[0])

	assert.Len(t, stage.SolidRects(), 5, "ground and ice on the bottom row")
	assert.Len(t, stage.OneWayRects(), 2)
	assert.InDelta(t, 0.4, stage.Tileset.Get(1).Friction, 1e-9)
	assert.Equal(t, entity.DefaultFriction, stage.Tileset.Get(2).Friction)
	assert.True(t, stage.Tileset.Get(3).Deadly)
}

func TestLoadStageFromTMX_Missing(t *testing.T) {
	_, err := LoadStageFromTMX(fstest.MapFS{}, "nope.tmx", config.DefaultPhysics())
	assert.Error(t, err)
}
