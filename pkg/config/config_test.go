package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, DefaultYears, cfg.Years)
	require.Equal(t, DefaultChokepoints, cfg.Chokepoints)
	require.Equal(t, 2000, cfg.PageSize)
	require.Equal(t, 3, cfg.MaxAttempts)
	require.Equal(t, 1500*time.Millisecond, cfg.BackoffStep)
	require.Equal(t, time.Minute, cfg.RequestTimeout)
	require.Equal(t, "UTC", cfg.Location.String())
	require.Equal(t, DefaultSourceURL, cfg.SourceURL)
	require.Equal(t, 3, cfg.ScheduleHour)
	require.Equal(t, 0, cfg.ScheduleMinute)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORTWATCH_YEARS", "2024, 2025,2024")
	t.Setenv("PORTWATCH_CHOKEPOINTS", "Suez Canal;Bab el-Mandeb Strait")
	t.Setenv("PORTWATCH_BACKOFF_STEP", "10ms")
	t.Setenv("PORTWATCH_RUN_ONCE", "RAW")
	t.Setenv("PORTWATCH_SCHEDULE_AT", "22:45")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, []int{2024, 2025}, cfg.Years)
	require.Equal(t, []string{"Suez Canal", "Bab el-Mandeb Strait"}, cfg.Chokepoints)
	require.Equal(t, 10*time.Millisecond, cfg.BackoffStep)
	require.Equal(t, "raw", cfg.RunOnce)
	require.Equal(t, 22, cfg.ScheduleHour)
	require.Equal(t, 45, cfg.ScheduleMinute)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"PORTWATCH_YEARS":             "twenty",
		"PORTWATCH_BACKOFF_STEP":      "fast",
		"PORTWATCH_SOURCE_RPS":        "-1",
		"PORTWATCH_TIMEZONE":          "Mars/Olympus",
		"PORTWATCH_RUN_ONCE":          "bronze",
		"PORTWATCH_SCHEDULE_AT":       "25:00",
		"PORTWATCH_PAGE_SIZE":         "abc",
		"PORTWATCH_MAX_ATTEMPTS":      "-2",
		"PORTWATCH_FETCH_CONCURRENCY": "x",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
