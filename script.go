package grove

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in an input script.
type scriptStep struct {
	Action string   `yaml:"action"`
	Label  string   `yaml:"label,omitempty"`
	Keys   []string `yaml:"keys,omitempty"`
	DX     float32  `yaml:"dx,omitempty"`
	DY     float32  `yaml:"dy,omitempty"`
	Scroll float32  `yaml:"scroll,omitempty"`
	Frames int      `yaml:"frames,omitempty"`
}

type scriptFile struct {
	Steps []scriptStep `yaml:"steps"`
}

type scriptFrame struct {
	in    Input
	shots []string
}

// InputScript is a queue of synthetic per-frame inputs. It stands in for
// EbitenInput in Run and drives scenes frame by frame in tests.
type InputScript struct {
	queue  []scriptFrame
	cursor int
}

// NewInputScript returns an empty script.
func NewInputScript() *InputScript {
	return &InputScript{}
}

// ParseInputScript builds a script from YAML (or JSON). Actions:
//
//	hold       keys held for frames
//	press      keys held for one frame, then released for one
//	look       mouse dx/dy each frame for frames
//	scroll     wheel movement each frame for frames
//	wait       empty input for frames
//	screenshot capture the frame under label
func ParseInputScript(data []byte) (*InputScript, error) {
	var f scriptFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parse input script")
	}
	if len(f.Steps) == 0 {
		return nil, errors.New("parse input script: no steps")
	}
	s := NewInputScript()
	for i, st := range f.Steps {
		if err := s.addStep(st); err != nil {
			return nil, errors.Wrapf(err, "parse input script: step %d", i)
		}
	}
	return s, nil
}

// LoadInputScript reads and parses the script at path.
func LoadInputScript(path string) (*InputScript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read input script %s", path)
	}
	return ParseInputScript(data)
}

func (s *InputScript) addStep(st scriptStep) error {
	frames := max(st.Frames, 1)
	switch st.Action {
	case "hold", "press":
		keys := make([]Key, 0, len(st.Keys))
		for _, name := range st.Keys {
			k, ok := KeyFromName(name)
			if !ok {
				return errors.Errorf("unknown key %q", name)
			}
			keys = append(keys, k)
		}
		if st.Action == "press" {
			s.Press(keys...)
		} else {
			s.Hold(frames, keys...)
		}
	case "look":
		s.Look(st.DX, st.DY, frames)
	case "scroll":
		s.ScrollBy(st.Scroll, frames)
	case "wait":
		s.Wait(frames)
	case "screenshot":
		s.Screenshot(st.Label)
	default:
		return errors.Errorf("unknown action %q", st.Action)
	}
	return nil
}

// Hold queues frames frames with keys held.
func (s *InputScript) Hold(frames int, keys ...Key) {
	for range max(frames, 1) {
		var in Input
		for _, k := range keys {
			in.Press(k)
		}
		s.queue = append(s.queue, scriptFrame{in: in})
	}
}

// Press queues one frame with keys held followed by one released frame, so
// consecutive presses register as separate edges.
func (s *InputScript) Press(keys ...Key) {
	s.Hold(1, keys...)
	s.Wait(1)
}

// Look queues frames frames of cursor movement.
func (s *InputScript) Look(dx, dy float32, frames int) {
	for range max(frames, 1) {
		s.queue = append(s.queue, scriptFrame{in: Input{MouseDX: dx, MouseDY: dy}})
	}
}

// ScrollBy queues frames frames of wheel movement.
func (s *InputScript) ScrollBy(amount float32, frames int) {
	for range max(frames, 1) {
		s.queue = append(s.queue, scriptFrame{in: Input{Scroll: amount}})
	}
}

// Wait queues frames empty frames.
func (s *InputScript) Wait(frames int) {
	for range max(frames, 1) {
		s.queue = append(s.queue, scriptFrame{})
	}
}

// Screenshot queues an empty frame that Run captures under label.
func (s *InputScript) Screenshot(label string) {
	s.queue = append(s.queue, scriptFrame{shots: []string{label}})
}

// Next pops the next frame. ok is false once the script is exhausted.
func (s *InputScript) Next() (in Input, shots []string, ok bool) {
	if s.cursor >= len(s.queue) {
		return Input{}, nil, false
	}
	f := s.queue[s.cursor]
	s.cursor++
	return f.in, f.shots, true
}

// Len returns the number of frames not yet consumed.
func (s *InputScript) Len() int { return len(s.queue) - s.cursor }

// Done reports whether every queued frame has been consumed.
func (s *InputScript) Done() bool { return s.cursor >= len(s.queue) }
