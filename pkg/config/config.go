package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Redis     RedisConfig
	Recommend RecommendConfig
}

type AppConfig struct {
	Name        string
	Version     string
	Environment string
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

type JWTConfig struct {
	SecretKey string
	TTLHours  int
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

// RecommendConfig is the raw env form of the recommendation engine settings.
// business/recommend turns it into a validated engine config.
type RecommendConfig struct {
	MaxCombinationSize  int
	TopK                int
	Exclusions          string
	Schedule            string
	MinTrainingRecords  int
	ValidationFraction  float64
	MinImprovement      float64
	MinAcceptableMetric float64
	LearningRate        float64
	Epochs              int
	L2                  float64
	Seed                int64
}

var defaults = map[string]any{
	"APP_NAME":    "Case Management API",
	"APP_VERSION": "1.0.0",
	"APP_ENV":     "development",

	"PORT":         "8000",
	"CORS_ORIGINS": "*",

	"DB_HOST":     "localhost",
	"DB_PORT":     "5432",
	"DB_USER":     "postgres",
	"DB_PASSWORD": "",
	"DB_NAME":     "case_management",
	"DB_SSL_MODE": "disable",

	"JWT_SECRET":    "",
	"JWT_TTL_HOURS": 24,

	"REDIS_HOST":     "localhost",
	"REDIS_PORT":     "6379",
	"REDIS_PASSWORD": "",
	"REDIS_DB":       0,

	"RECOMMEND_MAX_COMBINATION_SIZE":  3,
	"RECOMMEND_TOP_K":                 0,
	"RECOMMEND_EXCLUSIONS":            "",
	"RECOMMEND_SCHEDULE":              "weekly",
	"RECOMMEND_MIN_TRAINING_RECORDS":  20,
	"RECOMMEND_VALIDATION_FRACTION":   0.2,
	"RECOMMEND_MIN_IMPROVEMENT":       0.0,
	"RECOMMEND_MIN_ACCEPTABLE_METRIC": 0.5,
	"RECOMMEND_LEARNING_RATE":         0.1,
	"RECOMMEND_EPOCHS":                500,
	"RECOMMEND_L2":                    0.001,
	"RECOMMEND_SEED":                  42,
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	cfg := &Config{
		App: AppConfig{
			Name:        v.GetString("APP_NAME"),
			Version:     v.GetString("APP_VERSION"),
			Environment: v.GetString("APP_ENV"),
		},
		Server: ServerConfig{
			Port:        v.GetString("PORT"),
			CORSOrigins: splitList(v.GetString("CORS_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetString("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			Name:     v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		JWT: JWTConfig{
			SecretKey: v.GetString("JWT_SECRET"),
			TTLHours:  v.GetInt("JWT_TTL_HOURS"),
		},
		Redis: RedisConfig{
			RedisHost:     v.GetString("REDIS_HOST"),
			RedisPort:     v.GetString("REDIS_PORT"),
			RedisPassword: v.GetString("REDIS_PASSWORD"),
			RedisDB:       v.GetInt("REDIS_DB"),
		},
		Recommend: RecommendConfig{
			MaxCombinationSize:  v.GetInt("RECOMMEND_MAX_COMBINATION_SIZE"),
			TopK:                v.GetInt("RECOMMEND_TOP_K"),
			Exclusions:          v.GetString("RECOMMEND_EXCLUSIONS"),
			Schedule:            v.GetString("RECOMMEND_SCHEDULE"),
			MinTrainingRecords:  v.GetInt("RECOMMEND_MIN_TRAINING_RECORDS"),
			ValidationFraction:  v.GetFloat64("RECOMMEND_VALIDATION_FRACTION"),
			MinImprovement:      v.GetFloat64("RECOMMEND_MIN_IMPROVEMENT"),
			MinAcceptableMetric: v.GetFloat64("RECOMMEND_MIN_ACCEPTABLE_METRIC"),
			LearningRate:        v.GetFloat64("RECOMMEND_LEARNING_RATE"),
			Epochs:              v.GetInt("RECOMMEND_EPOCHS"),
			L2:                  v.GetFloat64("RECOMMEND_L2"),
			Seed:                v.GetInt64("RECOMMEND_SEED"),
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.JWT.TTLHours <= 0 {
		return nil, errors.New("jwt ttl must be positive")
	}

	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
