package system

// Intent represents something the input feel controller decided this frame
type Intent interface {
	isIntent()
}

// JumpIntent records a buffered jump press
type JumpIntent struct {
	Buffer float64 // seconds the press stays valid
}

func (JumpIntent) isIntent() {}

// DropIntent records a down+jump press asking to fall through a one-way platform
type DropIntent struct {
	Window float64 // seconds to land on something before the request expires
}

func (DropIntent) isIntent() {}

// JumpFiredIntent reports a jump that left the ground this frame
type JumpFiredIntent struct {
	Speed  float64
	Coyote bool // fired after walking off a ledge
}

func (JumpFiredIntent) isIntent() {}

// DropStartedIntent reports that one-way platforms are ignored from now on
type DropStartedIntent struct {
	IgnoreFor float64
}

func (DropStartedIntent) isIntent() {}
