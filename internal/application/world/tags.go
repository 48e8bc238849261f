package world

import "github.com/yohamta/donburi"

var (
	TagPlayer = donburi.NewTag().SetName("Player")
	TagEnemy  = donburi.NewTag().SetName("Enemy")
)

// Resolv tags for entity overlap checks
const (
	ResolvPlayer = "player"
	ResolvEnemy  = "enemy"
)
