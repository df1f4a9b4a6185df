package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/yegor77/pipeline-portwatch/pkg/utils"
)

const DefaultSourceURL = "https://services9.arcgis.com/weJ1QsnbMYJlCHdG/arcgis/rest/services/Daily_Chokepoints_Data/FeatureServer/0/query"

var (
	DefaultYears       = []int{2019, 2020, 2021, 2022, 2023, 2024, 2025}
	DefaultChokepoints = []string{"Suez Canal", "Panama Canal", "Cape of Good Hope", "Strait of Hormuz"}
)

// Config holds environment-driven settings shared by the worker and the runner.
type Config struct {
	DataRoot string
	LogDir   string

	SourceURL      string
	Years          []int
	Chokepoints    []string
	PageSize       int
	MaxAttempts    int
	BackoffStep    time.Duration
	RequestTimeout time.Duration
	SourceRPS      float64
	InsecureTLS    bool

	// FetchConcurrency bounds the (year, chokepoint) pairs fetched at once.
	FetchConcurrency int

	// Location is the zone in which a run's date (file suffix, extraction date) is taken.
	Location *time.Location

	Cron    string
	RunOnce string

	// ScheduleHour and ScheduleMinute place the Temporal daily schedule in Location.
	ScheduleHour   int
	ScheduleMinute int

	Addr          string
	AdminToken    string
	SessionSecret string

	ClickHouseEnabled bool
	RedisEnabled      bool
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		DataRoot:          utils.Env("PORTWATCH_DATA_ROOT", "./database"),
		LogDir:            utils.Env("PORTWATCH_LOG_DIR", "./logs/portwatch_raw"),
		SourceURL:         utils.Env("PORTWATCH_SOURCE_URL", DefaultSourceURL),
		Chokepoints:       utils.Dedup(utils.EnvList("PORTWATCH_CHOKEPOINTS", ";", DefaultChokepoints)),
		InsecureTLS:       utils.EnvBool("PORTWATCH_INSECURE_TLS", false),
		Cron:              utils.Env("PORTWATCH_CRON", "0 0 3 * * *"),
		RunOnce:           strings.ToLower(utils.Env("PORTWATCH_RUN_ONCE", "")),
		Addr:              utils.Env("ADDR", ":3002"),
		AdminToken:        utils.Env("ADMIN_TOKEN", ""),
		SessionSecret:     utils.Env("SESSION_SECRET", ""),
		ClickHouseEnabled: utils.EnvBool("CLICKHOUSE_ENABLED", false),
		RedisEnabled:      utils.EnvBool("REDIS_ENABLED", false),
	}

	years, err := parseYears(utils.EnvList("PORTWATCH_YEARS", ",", nil))
	if err != nil {
		return cfg, err
	}
	cfg.Years = years

	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"PORTWATCH_PAGE_SIZE", 2000, &cfg.PageSize},
		{"PORTWATCH_MAX_ATTEMPTS", 3, &cfg.MaxAttempts},
		{"PORTWATCH_FETCH_CONCURRENCY", 1, &cfg.FetchConcurrency},
	}
	for _, it := range ints {
		if *it.dst, err = utils.EnvPositiveInt(it.key, it.def); err != nil {
			return cfg, fmt.Errorf("invalid %s: %w", it.key, err)
		}
	}

	if cfg.BackoffStep, err = utils.EnvDuration("PORTWATCH_BACKOFF_STEP", 1500*time.Millisecond); err != nil {
		return cfg, fmt.Errorf("invalid PORTWATCH_BACKOFF_STEP: %w", err)
	}
	if cfg.RequestTimeout, err = utils.EnvDuration("PORTWATCH_REQUEST_TIMEOUT", 60*time.Second); err != nil {
		return cfg, fmt.Errorf("invalid PORTWATCH_REQUEST_TIMEOUT: %w", err)
	}

	cfg.SourceRPS = 5
	if raw := utils.Env("PORTWATCH_SOURCE_RPS", ""); raw != "" {
		rps, err := strconv.ParseFloat(raw, 64)
		if err != nil || rps <= 0 {
			return cfg, fmt.Errorf("invalid PORTWATCH_SOURCE_RPS: %s", raw)
		}
		cfg.SourceRPS = rps
	}

	tz := utils.Env("PORTWATCH_TIMEZONE", "UTC")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return cfg, fmt.Errorf("invalid PORTWATCH_TIMEZONE %q: %w", tz, err)
	}

	at := utils.Env("PORTWATCH_SCHEDULE_AT", "03:00")
	t, err := time.Parse("15:04", at)
	if err != nil {
		return cfg, fmt.Errorf("invalid PORTWATCH_SCHEDULE_AT %q: %w", at, err)
	}
	cfg.ScheduleHour, cfg.ScheduleMinute = t.Hour(), t.Minute()

	switch cfg.RunOnce {
	case "", "raw", "standardized", "curated", "all":
	default:
		return cfg, fmt.Errorf("invalid PORTWATCH_RUN_ONCE: %s", cfg.RunOnce)
	}

	return cfg, nil
}

func parseYears(items []string) ([]int, error) {
	if len(items) == 0 {
		return append([]int(nil), DefaultYears...), nil
	}
	out := make([]int, 0, len(items))
	seen := make(map[int]bool, len(items))
	for _, item := range items {
		y, err := strconv.Atoi(item)
		if err != nil || y < 1900 || y > 9999 {
			return nil, fmt.Errorf("invalid PORTWATCH_YEARS entry: %s", item)
		}
		if !seen[y] {
			seen[y] = true
			out = append(out, y)
		}
	}
	return out, nil
}
