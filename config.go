package grove

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables of a scene. DefaultConfig returns a complete set;
// ParseConfig overlays a YAML document onto it.
type Config struct {
	Camera      CameraConfig      `yaml:"camera"`
	ThirdPerson ThirdPersonConfig `yaml:"third_person"`
	Aerial      AerialConfig      `yaml:"aerial"`
	Teleports   []Teleport        `yaml:"teleports"`
	Physics     PhysicsConfig     `yaml:"physics"`
	Animation   AnimationConfig   `yaml:"animation"`
	Projection  ProjectionConfig  `yaml:"projection"`
	Frame       FrameConfig       `yaml:"frame"`
}

// CameraConfig is the free camera's start pose and speeds.
type CameraConfig struct {
	Position Vec3 `yaml:"position"`
	// Yaw and Pitch are in degrees. Yaw -90 looks down -Z.
	Yaw   float32 `yaml:"yaw"`
	Pitch float32 `yaml:"pitch"`
	// MoveSpeed is in units per second, TurnSpeed in degrees per pixel.
	MoveSpeed float32 `yaml:"move_speed"`
	TurnSpeed float32 `yaml:"turn_speed"`
}

// ThirdPersonConfig places the camera behind its target.
type ThirdPersonConfig struct {
	Distance  float32 `yaml:"distance"`
	Height    float32 `yaml:"height"`
	MoveSpeed float32 `yaml:"move_speed"`
}

// AerialConfig configures the top-down overview.
type AerialConfig struct {
	Center      Vec3    `yaml:"center"`
	Height      float32 `yaml:"height"`
	MinHeight   float32 `yaml:"min_height"`
	MaxHeight   float32 `yaml:"max_height"`
	ScrollStep  float32 `yaml:"scroll_step"`
	MoveSpeed   float32 `yaml:"move_speed"`
	Sensitivity float32 `yaml:"sensitivity"`
	Yaw         float32 `yaml:"yaw"`
	Pitch       float32 `yaml:"pitch"`
}

// Teleport is a named free-camera destination. A positive Duration glides
// there instead of jumping.
type Teleport struct {
	Name     string  `yaml:"name"`
	Position Vec3    `yaml:"position"`
	Yaw      float32 `yaml:"yaw"`
	Pitch    float32 `yaml:"pitch"`
	Duration float32 `yaml:"duration"`
}

// PhysicsConfig sets the body defaults used by the scene and the camera.
type PhysicsConfig struct {
	Gravity     float32 `yaml:"gravity"`
	JumpImpulse float32 `yaml:"jump_impulse"`
}

// AnimationConfig sets animator defaults.
type AnimationConfig struct {
	ChannelSpeed float32 `yaml:"channel_speed"`
}

// ProjectionConfig is the perspective projection. FovY is in degrees.
type ProjectionConfig struct {
	FovY float32 `yaml:"fov_y"`
	Near float32 `yaml:"near"`
	Far  float32 `yaml:"far"`
}

// FrameConfig is the frame budget used to derive dt.
type FrameConfig struct {
	TargetFPS float32 `yaml:"target_fps"`
	// MaxDelta caps a single dt in seconds.
	MaxDelta float32 `yaml:"max_delta"`
}

// DefaultConfig returns the stock scene settings.
func DefaultConfig() Config {
	return Config{
		Camera: CameraConfig{
			Position:  Vec3{0, 2, 10},
			Yaw:       -90,
			Pitch:     0,
			MoveSpeed: 10,
			TurnSpeed: 0.3,
		},
		ThirdPerson: ThirdPersonConfig{
			Distance:  5,
			Height:    2,
			MoveSpeed: 5,
		},
		Aerial: AerialConfig{
			Center:      Vec3{0, 0, 0},
			Height:      80,
			MinHeight:   10,
			MaxHeight:   200,
			ScrollStep:  2,
			MoveSpeed:   20,
			Sensitivity: 0.5,
			Yaw:         -90,
			Pitch:       -60,
		},
		Teleports: []Teleport{
			{Name: "pyramid", Position: Vec3{0, 10, -60}, Yaw: -90, Pitch: -10},
			{Name: "court", Position: Vec3{-60, 5, 0}, Yaw: 0, Pitch: -5},
			{Name: "canals", Position: Vec3{60, 5, 40}, Yaw: 180, Pitch: -5},
			{Name: "arena", Position: Vec3{155, 8, -90}, Yaw: -90, Pitch: -15},
		},
		Physics: PhysicsConfig{
			Gravity:     DefaultGravity,
			JumpImpulse: 8,
		},
		Animation: AnimationConfig{
			ChannelSpeed: DefaultChannelSpeed,
		},
		Projection: ProjectionConfig{
			FovY: 45,
			Near: 0.1,
			Far:  1000,
		},
		Frame: FrameConfig{
			TargetFPS: 60,
			MaxDelta:  0.25,
		},
	}
}

// Validate rejects settings the frame loop cannot run with.
func (c Config) Validate() error {
	if c.Frame.TargetFPS <= 0 {
		return errors.Errorf("frame.target_fps must be positive, got %v", c.Frame.TargetFPS)
	}
	if c.Frame.MaxDelta <= 0 {
		return errors.Errorf("frame.max_delta must be positive, got %v", c.Frame.MaxDelta)
	}
	if c.Aerial.MinHeight > c.Aerial.MaxHeight {
		return errors.Errorf("aerial.min_height %v exceeds aerial.max_height %v", c.Aerial.MinHeight, c.Aerial.MaxHeight)
	}
	if c.Projection.Near <= 0 || c.Projection.Far <= c.Projection.Near {
		return errors.Errorf("projection near/far invalid: %v/%v", c.Projection.Near, c.Projection.Far)
	}
	if c.ThirdPerson.Distance < 0 {
		return errors.Errorf("third_person.distance must not be negative, got %v", c.ThirdPerson.Distance)
	}
	return nil
}

// ParseConfig overlays YAML onto DefaultConfig and validates the result.
// Keys absent from data keep their default values.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrap(err, "invalid config")
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}
