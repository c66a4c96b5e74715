package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, "", cfg.Server.AllowedOrigin)
	assert.Equal(t, 100, cfg.Game.StartingVitality)
	assert.Equal(t, 100, cfg.Game.MaxVitality)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "", cfg.Database.URL)
	assert.False(t, cfg.Replay.Enabled)
	assert.Equal(t, "replays", cfg.Replay.Dir)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9000"
  allowed_origin: "https://game.example.com"
game:
  starting_vitality: 80
  max_vitality: 120
logging:
  level: debug
  format: json
replay:
  enabled: true
  dir: /tmp/replays
auth:
  admin_password_hash: "$2a$10$abcdefghijklmnopqrstuv"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "https://game.example.com", cfg.Server.AllowedOrigin)
	assert.Equal(t, 80, cfg.Game.StartingVitality)
	assert.Equal(t, 120, cfg.Game.MaxVitality)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Replay.Enabled)
	assert.Equal(t, "/tmp/replays", cfg.Replay.Dir)
	assert.NotEmpty(t, cfg.Auth.AdminPasswordHash)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LIFEGAME_SERVER_ADDRESS", ":7777")
	t.Setenv("LIFEGAME_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_ValidationFailures(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "zero max vitality",
			content: `
game:
  max_vitality: 0
`,
		},
		{
			name: "starting above max",
			content: `
game:
  starting_vitality: 150
  max_vitality: 100
`,
		},
		{
			name: "bad log level",
			content: `
logging:
  level: verbose
`,
		},
		{
			name: "bad log format",
			content: `
logging:
  format: xml
`,
		},
		{
			name: "replay enabled without dir",
			content: `
replay:
  enabled: true
  dir: ""
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0644))
			_, err := Load(path)
			assert.Error(t, err)
		})
	}
}
