package config

import "fmt"

// EntitiesConfig is the root config for entities.json
type EntitiesConfig struct {
	Player  PlayerConfig           `json:"player"`
	Enemies map[string]EnemyConfig `json:"enemies"`
}

type PlayerConfig struct {
	ID     string     `json:"id"`
	Hitbox SizeConfig `json:"hitbox"`
	Color  string     `json:"color"`
}

type SizeConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type EnemyConfig struct {
	ID     string     `json:"id"`
	Hitbox SizeConfig `json:"hitbox"`
	Color  string     `json:"color"`
	AI     AIConfig   `json:"ai"`
}

type AIConfig struct {
	Type        string  `json:"type"`
	PatrolRange float64 `json:"patrolRange"`
	Speed       float64 `json:"speed"`
}

// DefaultEntities returns the stock player and the "slime" patroller
func DefaultEntities() *EntitiesConfig {
	return &EntitiesConfig{
		Player: PlayerConfig{
			ID:     "player",
			Hitbox: SizeConfig{Width: 24, Height: 32},
			Color:  "#3cb4ff",
		},
		Enemies: map[string]EnemyConfig{
			"slime": {
				ID:     "slime",
				Hitbox: SizeConfig{Width: 24, Height: 28},
				Color:  "#dc5050",
				AI:     AIConfig{Type: "patrol", PatrolRange: 160, Speed: 80},
			},
		},
	}
}

// Enemy returns the config of an enemy kind
func (c *EntitiesConfig) Enemy(kind string) (EnemyConfig, bool) {
	e, ok := c.Enemies[kind]
	return e, ok
}

// Validate checks hitbox sizes are usable
func (c *EntitiesConfig) Validate() error {
	if c.Player.Hitbox.Width <= 0 || c.Player.Hitbox.Height <= 0 {
		return fmt.Errorf("%w: player hitbox must be positive", ErrInvalidConfig)
	}
	for kind, e := range c.Enemies {
		if e.Hitbox.Width <= 0 || e.Hitbox.Height <= 0 {
			return fmt.Errorf("%w: enemy %q hitbox must be positive", ErrInvalidConfig, kind)
		}
		if e.AI.PatrolRange < 0 || e.AI.Speed < 0 {
			return fmt.Errorf("%w: enemy %q patrol must not be negative", ErrInvalidConfig, kind)
		}
	}
	return nil
}
