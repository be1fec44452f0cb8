// Package config provides YAML-based tuning for the simulation and the
// save locations used by the frontends.
package config

import (
	"github.com/vovakirdan/one-and-all/internal/sim"
)

// Config is the full tuning file.
type Config struct {
	Particles ParticlesConfig `yaml:"particles"`
	Joining   JoiningConfig   `yaml:"joining"`
	World     WorldConfig     `yaml:"world"`
	Spawn     SpawnConfig     `yaml:"spawn"`
	Save      SaveConfig      `yaml:"save"`
}

// ParticlesConfig controls how particles leave their emitters.
type ParticlesConfig struct {
	VelRange float32 `yaml:"vel_range"` // max random velocity per axis
	RotRange float32 `yaml:"rot_range"` // max random spin
	VelDist  float32 `yaml:"vel_dist"`  // drift along an orbit's tangent
}

// JoiningConfig controls the halo orbiting the player.
type JoiningConfig struct {
	OpacityRate float32 `yaml:"opacity_rate"`
	FarDist     float32 `yaml:"far_dist"`
	NearDist    float32 `yaml:"near_dist"`
}

// WorldConfig holds pacing and easing parameters.
type WorldConfig struct {
	MaxMoons         int     `yaml:"max_moons"`
	DoubleClickTime  float32 `yaml:"double_click_time"`
	NotificationTime float32 `yaml:"notification_time"`
	TextRate         float32 `yaml:"text_rate"`   // seconds per story character
	PlayerEase       float32 `yaml:"player_ease"` // divisor per frame
	JoiningEase      float32 `yaml:"joining_ease"`
	CameraEase       float32 `yaml:"camera_ease"`
}

// SpawnConfig holds the odds of what a sandbox double click creates. Fish
// take whatever is left.
type SpawnConfig struct {
	PlanetOdds float32 `yaml:"planet_odds"`
	StarOdds   float32 `yaml:"star_odds"`
}

// SaveConfig names where saves go.
type SaveConfig struct {
	File     string `yaml:"file"`     // flat save file
	Database string `yaml:"database"` // SQLite slot database
	Slot     string `yaml:"slot"`     // default slot name
	Version  int    `yaml:"version"`  // format written: 0 legacy, 1 tagged
}

// Tuning converts the simulation sections into sim.Tuning.
func (c Config) Tuning() sim.Tuning {
	return sim.Tuning{
		ParticleVelRange:   c.Particles.VelRange,
		ParticleRotRange:   c.Particles.RotRange,
		ParticleVelDist:    c.Particles.VelDist,
		JoiningOpacityRate: c.Joining.OpacityRate,
		JoiningFarDist:     c.Joining.FarDist,
		JoiningNearDist:    c.Joining.NearDist,
		MaxMoons:           c.World.MaxMoons,
		DoubleClickTime:    c.World.DoubleClickTime,
		NotificationTime:   c.World.NotificationTime,
		TextRate:           c.World.TextRate,
		PlayerEase:         c.World.PlayerEase,
		JoiningEase:        c.World.JoiningEase,
		CameraEase:         c.World.CameraEase,
		PlanetOdds:         c.Spawn.PlanetOdds,
		StarOdds:           c.Spawn.StarOdds,
	}
}

// SaveVersion returns the configured save format as a version byte.
func (c Config) SaveVersion() byte {
	return byte(c.Save.Version)
}

// Options builds world options from the tuning and save sections.
func (c Config) Options() sim.Options {
	return sim.Options{Tuning: c.Tuning(), SaveVersion: c.SaveVersion()}
}
