package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

type Config struct {
	ServiceName string
	LoggerLevel string

	AppPort int

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string

	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	WhatsAppToken   string
	WhatsAppPhoneID string
	WhatsAppAPIBase string

	// Matching defaults. Radius values are meters; the configured search
	// radius (km) is clamped into [DefaultRadiusMeters, MaxRadiusMeters].
	SearchRadiusKm      float64
	DefaultRadiusMeters int
	MaxRadiusMeters     int
	MaxResults          int
	MatchWindowDays     int

	// Trip lifetimes. Nearby intents are short-lived; scheduled trips keep
	// standing value for days.
	NearbyTripTTL    time.Duration
	ScheduledTripTTL time.Duration

	// Cached location freshness window.
	LocationCacheTTL time.Duration

	Timezone string
}

func Load() Config {
	_ = godotenv.Load(".env")

	cfg := Config{}

	cfg.ServiceName = cast.ToString(getOrReturnDefault("SERVICE_NAME", "mobibot"))
	cfg.LoggerLevel = cast.ToString(getOrReturnDefault("LOGGER_LEVEL", "debug"))
	cfg.AppPort = cast.ToInt(getOrReturnDefault("APP_PORT", 8080))

	cfg.PostgresHost = cast.ToString(getOrReturnDefault("POSTGRES_HOST", "localhost"))
	cfg.PostgresPort = cast.ToString(getOrReturnDefault("POSTGRES_PORT", "5432"))
	cfg.PostgresUser = cast.ToString(getOrReturnDefault("POSTGRES_USER", "postgres"))
	cfg.PostgresPassword = cast.ToString(getOrReturnDefault("POSTGRES_PASSWORD", "1234"))
	cfg.PostgresDB = cast.ToString(getOrReturnDefault("POSTGRES_DB", "mobibot"))

	cfg.RedisHost = cast.ToString(getOrReturnDefault("REDIS_HOST", "localhost"))
	cfg.RedisPort = cast.ToString(getOrReturnDefault("REDIS_PORT", "6379"))
	cfg.RedisPassword = cast.ToString(getOrReturnDefault("REDIS_PASSWORD", ""))
	cfg.RedisDB = cast.ToInt(getOrReturnDefault("REDIS_DB", 0))

	cfg.WhatsAppToken = cast.ToString(getOrReturnDefault("WA_TOKEN", ""))
	cfg.WhatsAppPhoneID = cast.ToString(getOrReturnDefault("WA_PHONE_ID", ""))
	cfg.WhatsAppAPIBase = cast.ToString(getOrReturnDefault("WA_API_BASE", "https://graph.facebook.com/v19.0"))

	cfg.SearchRadiusKm = cast.ToFloat64(getOrReturnDefault("SEARCH_RADIUS_KM", 10.0))
	cfg.DefaultRadiusMeters = cast.ToInt(getOrReturnDefault("DEFAULT_RADIUS_METERS", 10000))
	cfg.MaxRadiusMeters = cast.ToInt(getOrReturnDefault("MAX_RADIUS_METERS", 25000))
	cfg.MaxResults = cast.ToInt(getOrReturnDefault("MAX_RESULTS", 9))
	cfg.MatchWindowDays = cast.ToInt(getOrReturnDefault("MATCH_WINDOW_DAYS", 30))

	cfg.NearbyTripTTL = time.Duration(cast.ToInt(getOrReturnDefault("NEARBY_TRIP_TTL_MINUTES", 90))) * time.Minute
	cfg.ScheduledTripTTL = time.Duration(cast.ToInt(getOrReturnDefault("SCHEDULED_TRIP_TTL_DAYS", 7))) * 24 * time.Hour
	cfg.LocationCacheTTL = time.Duration(cast.ToInt(getOrReturnDefault("LOCATION_CACHE_TTL_MINUTES", 30))) * time.Minute

	cfg.Timezone = cast.ToString(getOrReturnDefault("TIMEZONE", "Africa/Kigali"))

	return cfg
}

func getOrReturnDefault(key string, defaultValue interface{}) interface{} {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}
