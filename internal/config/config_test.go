package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rocketscienceinc/tictactoe-local/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	return path
}

func TestLoad(t *testing.T) {
	t.Run("Defaults", func(t *testing.T) {
		// Given: an empty config file
		path := writeConfig(t, "log-level: debug\n")

		// When: loading it
		conf, err := Load(path)

		// Then: defaults are filled in
		require.NoError(t, err)
		assert.Equal(t, "debug", conf.LogLevel)
		assert.Equal(t, "9090", conf.HTTPPort)
		assert.Equal(t, StorageMemory, conf.Storage)
		assert.Equal(t, "localhost:6379", conf.Redis.GetRedisAddr())
		assert.Equal(t, time.Hour, conf.Redis.SessionTTL)
		assert.True(t, conf.Presentation.SoundEnabled)
		assert.True(t, conf.Presentation.AnimationEnabled)
		assert.Equal(t, 100*time.Millisecond, conf.Presentation.SwitchCueDelay)

		first, second := conf.Presentation.Profiles()
		assert.Equal(t, entity.Profile{Name: "Player 1", Avatar: "person.circle.fill", Color: "red"}, first)
		assert.Equal(t, entity.Profile{Name: "Player 2", Avatar: "person.circle", Color: "green"}, second)
	})

	t.Run("File values win over defaults", func(t *testing.T) {
		// Given: a config overriding presentation settings
		path := writeConfig(t, `
storage: redis
redis:
  host: cache
  port: "6380"
  session-ttl: 10m
presentation:
  sound-enabled: false
  player-one:
    name: Alice
  avatars: [star.circle.fill]
`)

		// When: loading it
		conf, err := Load(path)

		// Then: the file values are used
		require.NoError(t, err)
		assert.Equal(t, StorageRedis, conf.Storage)
		assert.Equal(t, "cache:6380", conf.Redis.GetRedisAddr())
		assert.Equal(t, 10*time.Minute, conf.Redis.SessionTTL)
		assert.False(t, conf.Presentation.SoundEnabled)
		assert.Equal(t, "Alice", conf.Presentation.PlayerOne.Name)
		assert.Equal(t, "person.circle.fill", conf.Presentation.PlayerOne.Avatar)
		assert.True(t, conf.Presentation.HasAvatar("star.circle.fill"))
		assert.False(t, conf.Presentation.HasAvatar("face.smiling"))
	})

	t.Run("Zero switch delay is kept", func(t *testing.T) {
		// Given: a config asking for an immediate switch cue
		path := writeConfig(t, `
presentation:
  switch-cue-delay: 0s
`)

		// When: loading it
		conf, err := Load(path)

		// Then: the delay stays zero
		require.NoError(t, err)
		assert.Equal(t, time.Duration(0), conf.Presentation.SwitchCueDelay)
	})

	t.Run("Missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unable to load config file")
	})
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(filepath.Join(t.TempDir(), "missing.yml"))
	})
}
