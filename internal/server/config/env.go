package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// envFile is loaded before the environment is read; a missing file is fine.
var envFile = ".env"

// parseEnv overlays values from the process environment. Variables already
// set in the environment win over the ones from envFile.
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_URL, JWT_SECRET, JWT_EXPIRES_IN (duration),
//	COOKIE_SECURE (bool), REDIS_ADDR, REDIS_PASSWORD, REDIS_DB (int),
//	BCRYPT_COST (int), LOG_BACKEND
//
// Malformed numeric, boolean or duration values panic, like the other sources.
func parseEnv(config *Config) {
	if _, err := os.Stat(envFile); err == nil {
		if err := godotenv.Load(envFile); err != nil {
			panic(err)
		}
	}

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv("DATABASE_URL"); ok {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("JWT_SECRET"); ok {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("JWT_EXPIRES_IN"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		config.TokenValidityDuration = d
	}
	if v, ok := os.LookupEnv("COOKIE_SECURE"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(err)
		}
		config.CookieSecure = b
	}
	if v, ok := os.LookupEnv("REDIS_ADDR"); ok {
		config.RedisAddr = v
	}
	if v, ok := os.LookupEnv("REDIS_PASSWORD"); ok {
		config.RedisPassword = v
	}
	if v, ok := os.LookupEnv("REDIS_DB"); ok {
		config.RedisDB = mustAtoi(v)
	}
	if v, ok := os.LookupEnv("BCRYPT_COST"); ok {
		config.BcryptCost = mustAtoi(v)
	}
	if v, ok := os.LookupEnv("LOG_BACKEND"); ok {
		config.LogBackend = v
	}
}

func mustAtoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}
	return n
}
