package config

import (
	_ "embed"

	"github.com/vovakirdan/one-and-all/internal/sim"
)

//go:embed defaults/oneandall.yaml
var defaultYAML []byte

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	t := sim.DefaultTuning()
	return Config{
		Particles: ParticlesConfig{
			VelRange: t.ParticleVelRange,
			RotRange: t.ParticleRotRange,
			VelDist:  t.ParticleVelDist,
		},
		Joining: JoiningConfig{
			OpacityRate: t.JoiningOpacityRate,
			FarDist:     t.JoiningFarDist,
			NearDist:    t.JoiningNearDist,
		},
		World: WorldConfig{
			MaxMoons:         t.MaxMoons,
			DoubleClickTime:  t.DoubleClickTime,
			NotificationTime: t.NotificationTime,
			TextRate:         t.TextRate,
			PlayerEase:       t.PlayerEase,
			JoiningEase:      t.JoiningEase,
			CameraEase:       t.CameraEase,
		},
		Spawn: SpawnConfig{
			PlanetOdds: t.PlanetOdds,
			StarOdds:   t.StarOdds,
		},
		Save: SaveConfig{
			File:     "oneandall.sav",
			Database: "~/.oneandall/saves.db",
			Slot:     "default",
			Version:  int(sim.LatestVersion),
		},
	}
}
