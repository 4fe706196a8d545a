package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/authkeeper/internal/flagx"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
)

// JsonConfig defines a configuration structure tailored for JSON unmarshalling.
// Interval fields use timex.Duration, which accepts both "15m" style strings
// and integer nanoseconds. Pointer booleans distinguish "absent" from false.
type JsonConfig struct {
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC      string         `json:"endpoint_addr_grpc"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenIssuer           string         `json:"token_issuer"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	CookieName            string         `json:"cookie_name"`
	CookieDomain          string         `json:"cookie_domain"`
	CookieSecure          *bool          `json:"cookie_secure"`
	CookieSameSite        string         `json:"cookie_same_site"`
	BcryptCost            int            `json:"bcrypt_cost"`
	CORSAllowedOrigins    []string       `json:"cors_allowed_origins"`
	GinMode               string         `json:"gin_mode"`
	LogLevel              string         `json:"log_level"`
	HealthCheckInterval   timex.Duration `json:"health_check_interval"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance.
//
// The file path comes from the -c or -config command-line flags. If neither
// is set, nothing is loaded. Only fields present (non-zero) in the file
// override the current values. An unreadable file or invalid JSON panics.
func parseJson(config *Config) {

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
	setString(&config.TokenIssuer, c.TokenIssuer)
	setString(&config.CookieName, c.CookieName)
	setString(&config.CookieDomain, c.CookieDomain)
	setString(&config.CookieSameSite, c.CookieSameSite)
	setString(&config.GinMode, c.GinMode)
	setString(&config.LogLevel, c.LogLevel)

	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = c.TokenValidityDuration.Duration
	}
	if c.HealthCheckInterval.Duration > 0 {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.CookieSecure != nil {
		config.CookieSecure = *c.CookieSecure
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if len(c.CORSAllowedOrigins) > 0 {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
