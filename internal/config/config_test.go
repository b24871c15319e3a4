package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/HMS-AppointmentService/internal/domain"
)

const validTOML = `
[database]
host = "localhost"
port = 5432
user = "app"
password = "secret"
dbname = "appointments"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, validTOML))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.HTTPPort)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "info", cfg.Logs.Level)
	assert.Equal(t, domain.DefaultSlotGranularityMinutes, cfg.Booking.SlotGranularityMinutes)
	assert.Equal(t, 300, cfg.Reminder.IntervalSeconds)
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{
			name:    "missing database host",
			content: `[database]` + "\n" + `dbname = "appointments"`,
		},
		{
			name:    "negative slot granularity",
			content: validTOML + "\n[booking]\nslot_granularity_minutes = -15",
		},
		{
			name:    "negative max advance days",
			content: validTOML + "\n[booking]\nmax_advance_days = -1",
		},
		{
			name:    "default window open without close",
			content: validTOML + "\n[booking]\ndefault_open_time = \"09:00\"",
		},
		{
			name:    "default window open after close",
			content: validTOML + "\n[booking]\ndefault_open_time = \"17:00\"\ndefault_close_time = \"09:00\"",
		},
		{
			name:    "default window bad time format",
			content: validTOML + "\n[booking]\ndefault_open_time = \"9am\"\ndefault_close_time = \"17:00\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ZeroGranularityUsesDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, validTOML+"\n[booking]\nslot_granularity_minutes = 0"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSlotGranularityMinutes, cfg.Booking.SlotGranularityMinutes)
}

func TestDSN(t *testing.T) {
	cfg, err := Load(writeConfig(t, validTOML))
	require.NoError(t, err)
	assert.Equal(t,
		"host=localhost port=5432 user=app password=secret dbname=appointments sslmode=disable",
		cfg.Database.DSN())
}
