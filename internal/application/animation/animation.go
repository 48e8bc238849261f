package animation

import (
	"math"

	"github.com/younwookim/supercat/internal/domain/entity"
)

// Clip plays the sprite indices First..Last at FPS frames per second
type Clip struct {
	First int
	Last  int
	FPS   int
	Loop  bool // false freezes on Last

	elapsed float64
	frame   int
}

// NewClip creates a clip positioned on its first frame
func NewClip(first, last, fps int, loop bool) *Clip {
	return &Clip{First: first, Last: last, FPS: fps, Loop: loop, frame: first}
}

// Restart rewinds the clip to its first frame
func (c *Clip) Restart() {
	c.elapsed = 0
	c.frame = c.First
}

// Update advances the clip by dt seconds, skipping frames when dt spans several
func (c *Clip) Update(dt float64) {
	if c.Last < c.First || dt <= 0 {
		return
	}

	step := 1.0 / math.Max(1, float64(c.FPS))
	c.elapsed += dt
	for c.elapsed >= step {
		c.elapsed -= step
		c.frame++
		if c.frame > c.Last {
			if c.Loop {
				c.frame = c.First
			} else {
				c.frame = c.Last
			}
		}
	}
}

// Frame returns the current sprite index
func (c *Clip) Frame() int {
	return c.frame
}

// Animator picks a clip from the movement state.
// A clip restarts only when the state actually changes.
type Animator struct {
	clips map[entity.MovementState]*Clip
	state entity.MovementState
}

// NewAnimator creates an animator starting in the given state
func NewAnimator(clips map[entity.MovementState]*Clip, initial entity.MovementState) *Animator {
	return &Animator{clips: clips, state: initial}
}

// DefaultPlayerAnimator returns the cat's clips: idle 0-3, run 4-9, jump 10, fall 11
func DefaultPlayerAnimator() *Animator {
	return NewAnimator(map[entity.MovementState]*Clip{
		entity.StateIdle: NewClip(0, 3, 6, true),
		entity.StateRun:  NewClip(4, 9, 12, true),
		entity.StateJump: NewClip(10, 10, 1, false),
		entity.StateFall: NewClip(11, 11, 1, false),
	}, entity.StateIdle)
}

// SetState switches clips, restarting the new one if the state changed
func (a *Animator) SetState(state entity.MovementState) {
	if state == a.state {
		return
	}
	a.state = state
	if clip, ok := a.clips[state]; ok {
		clip.Restart()
	}
}

// State returns the state being played
func (a *Animator) State() entity.MovementState {
	return a.state
}

// Update advances the current clip
func (a *Animator) Update(dt float64) {
	if clip, ok := a.clips[a.state]; ok {
		clip.Update(dt)
	}
}

// Frame returns the current sprite index, false when the state has no clip
func (a *Animator) Frame() (int, bool) {
	clip, ok := a.clips[a.state]
	if !ok {
		return 0, false
	}
	return clip.Frame(), true
}
