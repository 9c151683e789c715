package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port           string
	AllowOrigins   string
	AdminTokenHash string
	TZDefault      string
	Debug          bool

	DBDriver    string
	DatabaseURL string
	DBHost      string
	DBPort      string
	DBUser      string
	DBPassword  string
	DBName      string
	DBSSLMode   string
	SQLitePath  string

	ReqTimeoutSec     int
	ActivityFeedLimit int
}

func defaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("ALLOW_ORIGINS", "*")
	v.SetDefault("ADMIN_TOKEN_HASH", "")
	v.SetDefault("TZ_DEFAULT", "Asia/Kolkata")
	v.SetDefault("DEBUG", false)
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_NAME", "mess")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("SQLITE_PATH", "mess.db")
	v.SetDefault("REQUEST_TIMEOUT_SECONDS", 30)
	v.SetDefault("ACTIVITY_FEED_LIMIT", 20)
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("config: could not load .env: %v", err)
		}
	}

	v := viper.New()
	v.SetTypeByDefaultValue(true)
	defaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:              v.GetString("PORT"),
		AllowOrigins:      v.GetString("ALLOW_ORIGINS"),
		AdminTokenHash:    strings.TrimSpace(v.GetString("ADMIN_TOKEN_HASH")),
		TZDefault:         v.GetString("TZ_DEFAULT"),
		Debug:             v.GetBool("DEBUG"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBName:            v.GetString("DB_NAME"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		SQLitePath:        v.GetString("SQLITE_PATH"),
		ReqTimeoutSec:     v.GetInt("REQUEST_TIMEOUT_SECONDS"),
		ActivityFeedLimit: v.GetInt("ACTIVITY_FEED_LIMIT"),
	}
}

// PostgresDSN prefers DATABASE_URL and otherwise assembles one from the DB_* parts.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Location is the zone calendar days are counted in.
func (c *Config) Location() *time.Location {
	return LoadLocationOrIndia(c.TZDefault)
}

func LoadLocationOrIndia(requested string) *time.Location {
	if strings.TrimSpace(requested) == "" {
		requested = "Asia/Kolkata"
	}
	loc, err := time.LoadLocation(requested)
	if err == nil {
		return loc
	}
	loc, err = time.LoadLocation("Asia/Kolkata")
	if err == nil {
		return loc
	}
	return time.FixedZone("IST", 5*3600+1800)
}
