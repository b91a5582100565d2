// Package config loads the server and client configuration files. The
// match itself never reads a file; everything configurable reaches it
// through these structs.
package config

import (
	"time"

	"github.com/spf13/viper"

	"github.com/tilerow/qgame/rules"
)

// ScoreConfig mirrors the configurable bonus values on disk.
type ScoreConfig struct {
	QBonus   int `mapstructure:"qbo"`
	EndBonus int `mapstructure:"fbo"`
}

// RefereeConfig adjusts the turn orchestrator.
type RefereeConfig struct {
	// PerTurnSeconds is the time budget for a single actor callback.
	PerTurnSeconds int         `mapstructure:"per-turn"`
	Score          ScoreConfig `mapstructure:"config-s"`
	Quiet          bool        `mapstructure:"quiet"`
}

// ServerConfig adjusts signup and hosting.
type ServerConfig struct {
	Port int `mapstructure:"port"`
	// ServerTries bounds how many signup rounds are attempted before
	// giving up on a match.
	ServerTries int `mapstructure:"server-tries"`
	// ServerWaitSeconds is the length of one signup round.
	ServerWaitSeconds int `mapstructure:"server-wait"`
	// SignupWaitSeconds bounds how long a connecting process may take
	// to provide its name.
	SignupWaitSeconds int           `mapstructure:"wait-for-signup"`
	Quiet             bool          `mapstructure:"quiet"`
	Referee           RefereeConfig `mapstructure:"ref-spec"`
}

// ClientConfig adjusts a connecting client.
type ClientConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	// WaitSeconds bounds the dial retries before giving up.
	WaitSeconds int    `mapstructure:"wait"`
	Quiet       bool   `mapstructure:"quiet"`
	Name        string `mapstructure:"name"`
	Strategy    string `mapstructure:"strategy"`
	Cheat       string `mapstructure:"cheat"`
}

// DefaultServerConfig mirrors the historical defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Port:              12345,
		ServerTries:       1,
		ServerWaitSeconds: 20,
		SignupWaitSeconds: 6,
		Quiet:             true,
		Referee:           DefaultRefereeConfig(),
	}
}

// DefaultRefereeConfig mirrors the historical defaults.
func DefaultRefereeConfig() RefereeConfig {
	return RefereeConfig{
		PerTurnSeconds: 6,
		Score: ScoreConfig{
			QBonus:   rules.DefaultQBonus,
			EndBonus: rules.DefaultEndBonus,
		},
		Quiet: true,
	}
}

// DefaultClientConfig mirrors the historical defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:        "localhost",
		Port:        12345,
		WaitSeconds: 3,
		Quiet:       true,
		Strategy:    "dag",
	}
}

// LoadServerConfig reads a server config file (JSON or YAML by
// extension), applying defaults for anything unset.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := DefaultServerConfig()
	if path == "" {
		return cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ServerConfig{}, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return ServerConfig{}, err
	}
	return cfg, nil
}

// LoadClientConfig reads a client config file, applying defaults.
func LoadClientConfig(path string) (ClientConfig, error) {
	cfg := DefaultClientConfig()
	if path == "" {
		return cfg, nil
	}
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return ClientConfig{}, err
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

// PerTurn converts the configured per-call budget to a duration.
func (c RefereeConfig) PerTurn() time.Duration {
	return time.Duration(c.PerTurnSeconds) * time.Second
}

// RulesScore converts the on-disk score values to the rulebook's type.
func (c RefereeConfig) RulesScore() rules.ScoreConfig {
	return rules.ScoreConfig{QBonus: c.Score.QBonus, EndBonus: c.Score.EndBonus}
}
