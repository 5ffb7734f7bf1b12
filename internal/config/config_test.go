package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg := DefaultPlatformerConfig()
	if err := yaml.Unmarshal(GetDefaultYAML("platformer"), &cfg); err != nil {
		t.Fatalf("embedded YAML does not parse: %v", err)
	}
	if cfg != DefaultPlatformerConfig() {
		t.Errorf("embedded YAML %+v differs from DefaultPlatformerConfig %+v", cfg, DefaultPlatformerConfig())
	}
	if GetDefaultYAML("snake") != nil {
		t.Error("unknown game should have no default YAML")
	}
}

func TestDefaultConfigIsValid(t *testing.T) {
	if err := DefaultPlatformerConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*PlatformerConfig)
	}{
		{"zero gravity", func(c *PlatformerConfig) { c.Physics.Gravity = 0 }},
		{"negative jump", func(c *PlatformerConfig) { c.Physics.JumpHeight = -1 }},
		{"zero enemy speed", func(c *PlatformerConfig) { c.Enemy.Speed = 0 }},
		{"zero player width", func(c *PlatformerConfig) { c.Player.Width = 0 }},
		{"negative tolerance", func(c *PlatformerConfig) { c.Enemy.StompTolerance = -2 }},
		{"negative bonus", func(c *PlatformerConfig) { c.Scoring.TreasureBonus = -1 }},
		{"enemy faster than cap", func(c *PlatformerConfig) { c.Enemy.Speed = 600 }},
		{"walk faster than cap", func(c *PlatformerConfig) { c.Physics.MoveSpeed = 501 }},
		{"jump launch above cap", func(c *PlatformerConfig) { c.Physics.JumpHeight = 200 }},
		{"bounce launch above cap", func(c *PlatformerConfig) { c.Physics.BounceHeight = 126 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultPlatformerConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestValidateSpeedCap(t *testing.T) {
	// sqrt(2 * 125 * 1000) is exactly the 500 px/s cap
	atCap := DefaultPlatformerConfig()
	atCap.Enemy.Speed = 500
	atCap.Physics.MoveSpeed = 500
	atCap.Physics.JumpHeight = 125
	if err := atCap.Validate(); err != nil {
		t.Errorf("speeds equal to the cap should pass, got %v", err)
	}

	uncapped := DefaultPlatformerConfig()
	uncapped.Physics.MaxSpeed = 0
	uncapped.Enemy.Speed = 5000
	uncapped.Physics.JumpHeight = 1000
	if err := uncapped.Validate(); err != nil {
		t.Errorf("max_speed 0 means no cap, got %v", err)
	}
}

func TestPresetCanExceedSpeedCap(t *testing.T) {
	cfg := DefaultPlatformerConfig()
	cfg.Enemy.Speed = 400
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() before preset = %v", err)
	}

	ApplyPlatformerPreset(&cfg, DifficultyHard)
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("hard preset pushes enemy speed to %v, Validate() = %v", cfg.Enemy.Speed, err)
	}
}

func TestLoadPlatformerCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	partial := "physics:\n  gravity: 800\nenemy:\n  speed: 40\n"
	if err := os.WriteFile(path, []byte(partial), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPlatformer(path)
	if err != nil {
		t.Fatalf("LoadPlatformer() failed: %v", err)
	}
	if cfg.Physics.Gravity != 800 || cfg.Enemy.Speed != 40 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Physics.JumpHeight != 32 {
		t.Errorf("unset keys should keep defaults, jump height = %v", cfg.Physics.JumpHeight)
	}
}

func TestLoadPlatformerCustomPathErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadPlatformer(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing explicit config")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("physics: [1, 2"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlatformer(bad); err == nil {
		t.Error("expected error for malformed YAML")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	if err := os.WriteFile(invalid, []byte("physics:\n  gravity: -5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPlatformer(invalid); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestLoadPlatformerFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	chdir(t, t.TempDir())

	cfg, err := LoadPlatformer("")
	if err != nil {
		t.Fatalf("LoadPlatformer() failed: %v", err)
	}
	if cfg != DefaultPlatformerConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadPlatformerLocalConfigsDir(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	chdir(t, dir)

	if err := os.MkdirAll(filepath.Join(dir, "configs"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "configs", "platformer.yaml"), []byte("physics:\n  move_speed: 120\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadPlatformer("")
	if err != nil {
		t.Fatalf("LoadPlatformer() failed: %v", err)
	}
	if cfg.Physics.MoveSpeed != 120 {
		t.Errorf("expected local config move speed 120, got %v", cfg.Physics.MoveSpeed)
	}
}

func TestParseDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyPreset
		err  bool
	}{
		{"", DifficultyNormal, false},
		{"easy", DifficultyEasy, false},
		{" HARD ", DifficultyHard, false},
		{"fixed", DifficultyFixed, false},
		{"nightmare", "", true},
	}

	for _, tc := range tests {
		got, err := ParseDifficulty(tc.in)
		if (err != nil) != tc.err {
			t.Errorf("ParseDifficulty(%q) error = %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseDifficulty(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyPlatformerPreset(t *testing.T) {
	easy := DefaultPlatformerConfig()
	ApplyPlatformerPreset(&easy, DifficultyEasy)
	if easy.Enemy.Speed != 30 || easy.Physics.JumpHeight != 40 {
		t.Errorf("easy preset: speed %v jump %v", easy.Enemy.Speed, easy.Physics.JumpHeight)
	}

	hard := DefaultPlatformerConfig()
	ApplyPlatformerPreset(&hard, DifficultyHard)
	if hard.Enemy.Speed != 75 || hard.Enemy.StompTolerance != 4 {
		t.Errorf("hard preset: speed %v tolerance %v", hard.Enemy.Speed, hard.Enemy.StompTolerance)
	}

	for _, p := range []DifficultyPreset{DifficultyNormal, DifficultyFixed} {
		cfg := DefaultPlatformerConfig()
		ApplyPlatformerPreset(&cfg, p)
		if cfg != DefaultPlatformerConfig() {
			t.Errorf("%s preset should not change the config", p)
		}
		if err := cfg.Validate(); err != nil {
			t.Errorf("%s preset produced invalid config: %v", p, err)
		}
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains: it changes
// the working directory and restores it when the test finishes.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
