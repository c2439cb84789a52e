package grove

import (
	"os"

	"github.com/pkg/errors"
	"github.com/tanema/gween/ease"
	"gopkg.in/yaml.v3"
)

const (
	// MaxKeyframes is the fixed capacity of a KeyframeTrack.
	MaxKeyframes = 100
	// DefaultKeyframeSteps is the number of sub-steps between two keyframes.
	DefaultKeyframeSteps = 30
)

// Keyframe is one recorded pose. PositionStep and RotationStep hold the
// per-sub-step increments toward the next keyframe and are filled in by
// KeyframeTrack.Interpolate.
type Keyframe struct {
	Position     Vec3 `yaml:"position"`
	PositionStep Vec3 `yaml:"-"`
	Rotation     Vec3 `yaml:"rotation"`
	RotationStep Vec3 `yaml:"-"`
}

// KeyframeTrack plays a fixed-capacity list of keyframes on a node, one
// sub-step per Advance call. It is independent of the animator channels and
// drives scripted one-shot props.
type KeyframeTrack struct {
	frames [MaxKeyframes]Keyframe
	count  int

	// Steps is the number of Advance calls spent between two keyframes.
	Steps int
	// Ease, when set, shapes each segment; otherwise the stored linear
	// increments are used.
	Ease ease.TweenFunc
	// Loop restarts playback at the first keyframe after the last segment.
	Loop bool

	playing bool
	index   int
	step    int
}

// NewKeyframeTrack returns an empty track with DefaultKeyframeSteps.
func NewKeyframeTrack() *KeyframeTrack {
	return &KeyframeTrack{Steps: DefaultKeyframeSteps}
}

// Add appends kf. Returns false when the track is full.
func (t *KeyframeTrack) Add(kf Keyframe) bool {
	if t.count >= MaxKeyframes {
		return false
	}
	t.frames[t.count] = kf
	t.count++
	return true
}

// Set replaces the keyframe at index i. Returns false when i is out of range.
func (t *KeyframeTrack) Set(i int, kf Keyframe) bool {
	if i < 0 || i >= t.count {
		return false
	}
	t.frames[i] = kf
	return true
}

// Len returns the number of stored keyframes.
func (t *KeyframeTrack) Len() int { return t.count }

// At returns the keyframe at index i, or the zero Keyframe when out of range.
func (t *KeyframeTrack) At(i int) Keyframe {
	if i < 0 || i >= t.count {
		return Keyframe{}
	}
	return t.frames[i]
}

// Clear stops playback and removes every keyframe.
func (t *KeyframeTrack) Clear() {
	t.Stop()
	t.count = 0
	t.frames = [MaxKeyframes]Keyframe{}
}

// Interpolate recomputes the per-sub-step increments of every segment.
func (t *KeyframeTrack) Interpolate() {
	steps := float32(t.steps())
	for i := 0; i < t.count-1; i++ {
		cur, next := &t.frames[i], t.frames[i+1]
		cur.PositionStep = next.Position.Sub(cur.Position).Mul(1 / steps)
		cur.RotationStep = next.Rotation.Sub(cur.Rotation).Mul(1 / steps)
	}
	if t.count > 0 {
		t.frames[t.count-1].PositionStep = Vec3{}
		t.frames[t.count-1].RotationStep = Vec3{}
	}
}

// Play starts playback from the first keyframe. Returns false when fewer
// than two keyframes are stored.
func (t *KeyframeTrack) Play() bool {
	if t.count < 2 {
		return false
	}
	t.Interpolate()
	t.playing = true
	t.index = 0
	t.step = 0
	return true
}

// Stop halts playback, leaving the node where it is.
func (t *KeyframeTrack) Stop() {
	t.playing = false
	t.index = 0
	t.step = 0
}

// Playing reports whether the track is running.
func (t *KeyframeTrack) Playing() bool { return t.playing }

// Index returns the keyframe the current segment starts from.
func (t *KeyframeTrack) Index() int { return t.index }

func (t *KeyframeTrack) steps() int {
	if t.Steps <= 0 {
		return DefaultKeyframeSteps
	}
	return t.Steps
}

// Advance moves node one sub-step along the current segment. At the end of a
// segment the node snaps to the next keyframe exactly.
func (t *KeyframeTrack) Advance(node *Node) {
	if !t.playing || node == nil {
		return
	}
	steps := t.steps()
	from, to := t.frames[t.index], t.frames[t.index+1]
	t.step++

	if t.step >= steps {
		node.Position = to.Position
		node.Rotation = to.Rotation
		node.UpdateTransform()
		t.step = 0
		t.index++
		if t.index >= t.count-1 {
			if t.Loop {
				t.index = 0
			} else {
				t.playing = false
				t.index = t.count - 1
			}
		}
		return
	}

	if t.Ease != nil {
		node.Position = easeVec(t.Ease, t.step, steps, from.Position, to.Position)
		node.Rotation = easeVec(t.Ease, t.step, steps, from.Rotation, to.Rotation)
	} else {
		s := float32(t.step)
		node.Position = from.Position.Add(from.PositionStep.Mul(s))
		node.Rotation = from.Rotation.Add(from.RotationStep.Mul(s))
	}
	node.UpdateTransform()
}

func easeVec(fn ease.TweenFunc, step, steps int, from, to Vec3) Vec3 {
	d := to.Sub(from)
	s, n := float32(step), float32(steps)
	return Vec3{
		fn(s, from[0], d[0], n),
		fn(s, from[1], d[1], n),
		fn(s, from[2], d[2], n),
	}
}

// keyframeDoc is the YAML shape read by ParseKeyframes.
type keyframeDoc struct {
	Steps     int        `yaml:"steps"`
	Loop      bool       `yaml:"loop"`
	Keyframes []Keyframe `yaml:"keyframes"`
}

// ParseKeyframes builds a track from YAML:
//
//	steps: 30
//	loop: false
//	keyframes:
//	  - position: [0, 0, 0]
//	    rotation: [0, 90, 0]
func ParseKeyframes(data []byte) (*KeyframeTrack, error) {
	var doc keyframeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "parse keyframes")
	}
	if len(doc.Keyframes) > MaxKeyframes {
		return nil, errors.Errorf("parse keyframes: %d keyframes exceeds capacity %d", len(doc.Keyframes), MaxKeyframes)
	}
	t := NewKeyframeTrack()
	if doc.Steps > 0 {
		t.Steps = doc.Steps
	}
	t.Loop = doc.Loop
	for _, kf := range doc.Keyframes {
		t.Add(kf)
	}
	t.Interpolate()
	return t, nil
}

// LoadKeyframes reads and parses a keyframe file.
func LoadKeyframes(path string) (*KeyframeTrack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read keyframes %s", path)
	}
	return ParseKeyframes(data)
}
