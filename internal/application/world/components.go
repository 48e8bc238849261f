package world

import (
	"github.com/solarlune/resolv"
	"github.com/younwookim/supercat/internal/domain/entity"
	"github.com/yohamta/donburi"
)

type PlayerData struct {
	*entity.Player
}

type EnemyData struct {
	*entity.Enemy
}

// ObjectData links an entity to its broadphase object
type ObjectData struct {
	*resolv.Object
}

var (
	Player = donburi.NewComponentType[PlayerData]()
	Enemy  = donburi.NewComponentType[EnemyData]()
	Object = donburi.NewComponentType[ObjectData]()
)

// syncObject moves the broadphase object onto the body's rect
func syncObject(obj *resolv.Object, body *entity.Body) {
	obj.X = body.Rect.X
	obj.Y = body.Rect.Y
	obj.Update()
}
