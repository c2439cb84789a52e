package grove

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Key is a logical control, independent of the physical key bound to it.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyJump
	KeyToggleThirdPerson
	KeyFreeMode
	KeyThirdPersonMode
	KeyAerialMode
	KeyTeleport1
	KeyTeleport2
	KeyTeleport3
	KeyTeleport4

	// KeyCount is the number of logical keys.
	KeyCount
)

var keyNames = [KeyCount]string{
	KeyForward:           "forward",
	KeyBack:              "back",
	KeyLeft:              "left",
	KeyRight:             "right",
	KeyUp:                "up",
	KeyDown:              "down",
	KeyJump:              "jump",
	KeyToggleThirdPerson: "toggle_third_person",
	KeyFreeMode:          "free_mode",
	KeyThirdPersonMode:   "third_person_mode",
	KeyAerialMode:        "aerial_mode",
	KeyTeleport1:         "teleport1",
	KeyTeleport2:         "teleport2",
	KeyTeleport3:         "teleport3",
	KeyTeleport4:         "teleport4",
}

func (k Key) String() string {
	if k < KeyCount {
		return keyNames[k]
	}
	return "unknown"
}

// KeyFromName returns the key whose String is name.
func KeyFromName(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return KeyCount, false
}

// Input is the per-frame input snapshot consumed by Scene.Update.
type Input struct {
	Keys [KeyCount]bool
	// MouseDX and MouseDY are the cursor movement since the previous frame.
	// MouseDY is positive when the cursor moves up.
	MouseDX, MouseDY float32
	// Scroll is the vertical wheel movement for the frame.
	Scroll float32
}

// Pressed reports whether k is held this frame. Out-of-range keys are never
// pressed.
func (in Input) Pressed(k Key) bool {
	return k < KeyCount && in.Keys[k]
}

// Press marks k as held.
func (in *Input) Press(k Key) {
	if k < KeyCount {
		in.Keys[k] = true
	}
}

// --- ebiten polling ---

// KeyBindings maps every logical key to the physical keys that trigger it.
type KeyBindings [KeyCount][]ebiten.Key

// DefaultKeyBindings is the WASD layout: Space rises or jumps, Control
// descends, Q toggles third person, 8/9/0 pick a mode and H/J/K/L teleport.
func DefaultKeyBindings() KeyBindings {
	var b KeyBindings
	b[KeyForward] = []ebiten.Key{ebiten.KeyW}
	b[KeyBack] = []ebiten.Key{ebiten.KeyS}
	b[KeyLeft] = []ebiten.Key{ebiten.KeyA}
	b[KeyRight] = []ebiten.Key{ebiten.KeyD}
	b[KeyUp] = []ebiten.Key{ebiten.KeySpace}
	b[KeyDown] = []ebiten.Key{ebiten.KeyControlLeft}
	b[KeyJump] = []ebiten.Key{ebiten.KeySpace}
	b[KeyToggleThirdPerson] = []ebiten.Key{ebiten.KeyQ}
	b[KeyFreeMode] = []ebiten.Key{ebiten.Key8, ebiten.KeyNumpad8}
	b[KeyThirdPersonMode] = []ebiten.Key{ebiten.Key9, ebiten.KeyNumpad9}
	b[KeyAerialMode] = []ebiten.Key{ebiten.Key0, ebiten.KeyNumpad0}
	b[KeyTeleport1] = []ebiten.Key{ebiten.KeyH}
	b[KeyTeleport2] = []ebiten.Key{ebiten.KeyJ}
	b[KeyTeleport3] = []ebiten.Key{ebiten.KeyK}
	b[KeyTeleport4] = []ebiten.Key{ebiten.KeyL}
	return b
}

// EbitenInput polls ebiten's keyboard, cursor and wheel into Input snapshots.
// Call Poll once per tick from the ebiten Update callback.
type EbitenInput struct {
	Bindings KeyBindings

	lastX, lastY int
	primed       bool
}

// NewEbitenInput returns a poller using DefaultKeyBindings.
func NewEbitenInput() *EbitenInput {
	return &EbitenInput{Bindings: DefaultKeyBindings()}
}

// Poll reads the current device state. Cursor deltas are zero on the first
// call.
func (e *EbitenInput) Poll() Input {
	var in Input
	for k, keys := range e.Bindings {
		for _, ek := range keys {
			if ebiten.IsKeyPressed(ek) {
				in.Keys[k] = true
				break
			}
		}
	}

	mx, my := ebiten.CursorPosition()
	if e.primed {
		in.MouseDX = float32(mx - e.lastX)
		in.MouseDY = float32(e.lastY - my)
	}
	e.lastX, e.lastY = mx, my
	e.primed = true

	_, wy := ebiten.Wheel()
	in.Scroll = float32(wy)
	return in
}
