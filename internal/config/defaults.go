package config

import (
	_ "embed"
)

//go:embed defaults/platformer.yaml
var defaultPlatformerYAML []byte

// DefaultPlatformerConfig returns the default platformer configuration.
func DefaultPlatformerConfig() PlatformerConfig {
	return PlatformerConfig{
		Physics: PlatformerPhysics{
			Gravity:      1000,
			MoveSpeed:    100,
			JumpHeight:   32,
			BounceHeight: 16,
			MaxSpeed:     500,
		},
		Player: PlatformerPlayer{
			Width:  16,
			Height: 16,
		},
		Enemy: PlatformerEnemy{
			Speed:          50,
			Width:          16,
			Height:         16,
			StompTolerance: 8,
		},
		Scoring: PlatformerScoring{
			StompPoints:        100,
			TreasureBonus:      1000,
			TimeBonusPerSecond: 10,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "platformer":
		return defaultPlatformerYAML
	default:
		return nil
	}
}
