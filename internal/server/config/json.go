package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/usersvc/internal/flagx"
	"github.com/dmitrijs2005/usersvc/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON config file. Durations use
// timex.Duration so both "24h" and integer nanoseconds are accepted.
// Pointer fields distinguish "absent" from an explicit zero value.
type JsonConfig struct {
	EndpointAddrHTTP      string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string          `json:"endpoint_addr_grpc"`
	DatabaseDSN           string          `json:"database_dsn"`
	SecretKey             string          `json:"secret_key"`
	TokenValidityDuration *timex.Duration `json:"token_validity_duration"`
	CookieSecure          *bool           `json:"cookie_secure"`
	RedisAddr             *string         `json:"redis_addr"`
	RedisPassword         string          `json:"redis_password"`
	RedisDB               *int            `json:"redis_db"`
	BcryptCost            *int            `json:"bcrypt_cost"`
	LogBackend            string          `json:"log_backend"`
}

// parseJson loads the file named by -c/-config, if any, and copies every
// field present in it onto config. Unreadable files and invalid JSON panic.
func parseJson(config *Config) {

	// try flags
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.RedisPassword, c.RedisPassword)
	setString(&config.LogBackend, c.LogBackend)

	if c.TokenValidityDuration != nil {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.RedisAddr != nil {
		config.RedisAddr = *c.RedisAddr
	}
	if c.RedisDB != nil {
		config.RedisDB = *c.RedisDB
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
