package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string `mapstructure:"PORT"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	JWTSecret   string `mapstructure:"JWT_SECRET"`
	FrontendURL string `mapstructure:"FRONTEND_URL"`

	// Redis
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`

	// Progression
	// Timezone controls the calendar-day boundary used by streaks and
	// daily quests. Defaults to UTC.
	Timezone string `mapstructure:"TIMEZONE"`

	// Leaderboard
	LeaderboardTTLSeconds int `mapstructure:"LEADERBOARD_TTL_SECONDS"`
	LeaderboardTopN       int `mapstructure:"LEADERBOARD_TOP_N"`

	// Tier thresholds by rank: rank 1 is platinum, ranks up to
	// TierGoldMaxRank are gold, up to TierSilverMaxRank silver,
	// everything below is bronze.
	TierGoldMaxRank   int `mapstructure:"TIER_GOLD_MAX_RANK"`
	TierSilverMaxRank int `mapstructure:"TIER_SILVER_MAX_RANK"`
}

var AppConfig *Config

func LoadConfig() {
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("LEADERBOARD_TTL_SECONDS", 300)
	viper.SetDefault("LEADERBOARD_TOP_N", 1000)
	viper.SetDefault("TIER_GOLD_MAX_RANK", 10)
	viper.SetDefault("TIER_SILVER_MAX_RANK", 50)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}
}

// DayLocation resolves the configured timezone for calendar-day math.
// Falls back to UTC if the name does not resolve, so a bad value can
// never take the progression paths down.
func (c *Config) DayLocation() *time.Location {
	if c == nil || c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		log.Printf("Unknown TIMEZONE %q, falling back to UTC", c.Timezone)
		return time.UTC
	}
	return loc
}

// LeaderboardTTL returns the snapshot TTL as a duration.
func (c *Config) LeaderboardTTL() time.Duration {
	if c == nil || c.LeaderboardTTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.LeaderboardTTLSeconds) * time.Second
}
