package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

type Config struct {
	LogLevel     string       `yaml:"log-level" env:"TTT_LOG_LEVEL" env-default:"info"`
	HTTPPort     string       `yaml:"http-port" env:"TTT_HTTP_PORT" env-default:"9090"`
	Storage      string       `yaml:"storage" env:"TTT_STORAGE" env-default:"memory"`
	Redis        Redis        `yaml:"redis"`
	Presentation Presentation `yaml:"presentation"`
}

type Redis struct {
	Host       string        `yaml:"host" env:"TTT_REDIS_HOST" env-default:"localhost"`
	Port       string        `yaml:"port" env:"TTT_REDIS_PORT" env-default:"6379"`
	SessionTTL time.Duration `yaml:"session-ttl" env:"TTT_REDIS_SESSION_TTL" env-default:"1h"`
}

// Presentation holds the settings the UI reads. None of it affects game rules.
type Presentation struct {
	SoundEnabled     bool          `yaml:"sound-enabled" env:"TTT_SOUND"`
	AnimationEnabled bool          `yaml:"animation-enabled" env:"TTT_ANIMATION"`
	SwitchCueDelay   time.Duration `yaml:"switch-cue-delay"`
	PlayerOne        PlayerProfile `yaml:"player-one"`
	PlayerTwo        PlayerProfile `yaml:"player-two"`
	Avatars          []string      `yaml:"avatars" env-default:"person.circle.fill,person.fill,face.smiling,star.circle.fill,heart.circle.fill,flag.circle.fill,person.circle"`
}

type PlayerProfile struct {
	Name   string `yaml:"name"`
	Avatar string `yaml:"avatar"`
	Color  string `yaml:"color"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

const defaultSwitchCueDelay = 100 * time.Millisecond

// Load reads the YAML file at path, or only the environment when path is empty.
func Load(path string) (*Config, error) {
	// cleanenv treats zero values as unset, so defaults that may be zeroed are seeded before reading.
	config := &Config{
		Presentation: Presentation{
			SoundEnabled:     true,
			AnimationEnabled: true,
			SwitchCueDelay:   defaultSwitchCueDelay,
		},
	}

	if path == "" {
		if err := cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("unable to read environment: %w", err)
		}
	} else if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	config.Presentation.applyDefaults()

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

func (that *Presentation) applyDefaults() {
	that.PlayerOne = that.PlayerOne.withDefaults(PlayerProfile{Name: "Player 1", Avatar: "person.circle.fill", Color: "red"})
	that.PlayerTwo = that.PlayerTwo.withDefaults(PlayerProfile{Name: "Player 2", Avatar: "person.circle", Color: "green"})
}

// HasAvatar reports whether avatar is part of the catalogue.
func (that *Presentation) HasAvatar(avatar string) bool {
	for _, known := range that.Avatars {
		if known == avatar {
			return true
		}
	}

	return false
}

func (that *Presentation) Profiles() (entity.Profile, entity.Profile) {
	return that.PlayerOne.Profile(), that.PlayerTwo.Profile()
}

func (that PlayerProfile) Profile() entity.Profile {
	return entity.Profile{Name: that.Name, Avatar: that.Avatar, Color: that.Color}
}

func (that PlayerProfile) withDefaults(defaults PlayerProfile) PlayerProfile {
	if that.Name == "" {
		that.Name = defaults.Name
	}

	if that.Avatar == "" {
		that.Avatar = defaults.Avatar
	}

	if that.Color == "" {
		that.Color = defaults.Color
	}

	return that
}
