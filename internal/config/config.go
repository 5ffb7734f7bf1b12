// Package config provides YAML-based game configuration loading and
// difficulty presets for the platformer.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// PlatformerConfig contains all tunable parameters of the platformer.
type PlatformerConfig struct {
	Physics PlatformerPhysics `yaml:"physics"`
	Player  PlatformerPlayer  `yaml:"player"`
	Enemy   PlatformerEnemy   `yaml:"enemy"`
	Scoring PlatformerScoring `yaml:"scoring"`
}

// PlatformerPhysics defines world physics.
type PlatformerPhysics struct {
	Gravity      float64 `yaml:"gravity"`
	MoveSpeed    float64 `yaml:"move_speed"`
	JumpHeight   float64 `yaml:"jump_height"`
	BounceHeight float64 `yaml:"bounce_height"`
	MaxSpeed     float64 `yaml:"max_speed"`
}

// PlatformerPlayer defines the player's bounding box.
type PlatformerPlayer struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// PlatformerEnemy defines enemy patrol and stomp parameters.
type PlatformerEnemy struct {
	Speed          float64 `yaml:"speed"`
	Width          float64 `yaml:"width"`
	Height         float64 `yaml:"height"`
	StompTolerance float64 `yaml:"stomp_tolerance"`
}

// PlatformerScoring defines points awarded during a session.
type PlatformerScoring struct {
	StompPoints        int `yaml:"stomp_points"`
	TreasureBonus      int `yaml:"treasure_bonus"`
	TimeBonusPerSecond int `yaml:"time_bonus_per_second"`
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate reports the first parameter that would make the game unplayable.
func (c PlatformerConfig) Validate() error {
	checks := []struct {
		name string
		ok   bool
	}{
		{"physics.gravity", c.Physics.Gravity > 0},
		{"physics.move_speed", c.Physics.MoveSpeed > 0},
		{"physics.jump_height", c.Physics.JumpHeight > 0},
		{"physics.bounce_height", c.Physics.BounceHeight > 0},
		{"physics.max_speed", c.Physics.MaxSpeed >= 0},
		{"player.width", c.Player.Width > 0},
		{"player.height", c.Player.Height > 0},
		{"enemy.speed", c.Enemy.Speed > 0},
		{"enemy.width", c.Enemy.Width > 0},
		{"enemy.height", c.Enemy.Height > 0},
		{"enemy.stomp_tolerance", c.Enemy.StompTolerance >= 0},
		{"scoring.stomp_points", c.Scoring.StompPoints >= 0},
		{"scoring.treasure_bonus", c.Scoring.TreasureBonus >= 0},
		{"scoring.time_bonus_per_second", c.Scoring.TimeBonusPerSecond >= 0},
	}
	for _, check := range checks {
		if !check.ok {
			return fmt.Errorf("%w: %s out of range", ErrInvalidConfig, check.name)
		}
	}

	// The engine clamps every velocity component to max_speed, so a speed
	// above it would be silently cut down mid-step.
	if c.Physics.MaxSpeed == 0 {
		return nil
	}
	speeds := []struct {
		name  string
		speed float64
	}{
		{"physics.move_speed", c.Physics.MoveSpeed},
		{"enemy.speed", c.Enemy.Speed},
		{"physics.jump_height", LaunchSpeed(c.Physics.JumpHeight, c.Physics.Gravity)},
		{"physics.bounce_height", LaunchSpeed(c.Physics.BounceHeight, c.Physics.Gravity)},
	}
	for _, s := range speeds {
		if s.speed > c.Physics.MaxSpeed {
			return fmt.Errorf("%w: %s needs %.0f px/s, above physics.max_speed %.0f",
				ErrInvalidConfig, s.name, s.speed, c.Physics.MaxSpeed)
		}
	}
	return nil
}

// LaunchSpeed is the upward speed that carries a body height pixels high
// under gravity.
func LaunchSpeed(height, gravity float64) float64 {
	return math.Sqrt(2 * height * gravity)
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // the loaded values, untouched
)

// ParseDifficulty converts a flag value to a preset. Empty means normal.
func ParseDifficulty(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	}
	return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
}

// ApplyPlatformerPreset modifies the config based on a difficulty preset.
// Easy slows enemies and raises the jump; hard speeds enemies up and
// shrinks the stomp window.
func ApplyPlatformerPreset(cfg *PlatformerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Enemy.Speed *= 0.6
		cfg.Physics.JumpHeight += 8
	case DifficultyHard:
		cfg.Enemy.Speed *= 1.5
		cfg.Enemy.StompTolerance /= 2
	}
}
