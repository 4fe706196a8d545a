package config

import (
	"os"
	"reflect"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/dmitrijs2005/authkeeper/internal/timex"
	"github.com/joho/godotenv"
)

// dotEnvFile is loaded when present. Variables already set in the process
// environment win over the file.
var dotEnvFile = ".env"

func loadDotEnv() {
	_ = godotenv.Load(dotEnvFile)
}

// parseEnv overlays values found in the environment. Unset variables leave
// the current value untouched. DATABASE_URL is preferred; DB_URI is accepted
// for older deployments. Durations accept a day unit ("1d").
func parseEnv(config *Config) {
	opts := env.Options{
		FuncMap: map[reflect.Type]env.ParserFunc{
			reflect.TypeOf(time.Duration(0)): func(v string) (interface{}, error) {
				return timex.ParseDuration(v)
			},
		},
	}
	if err := env.ParseWithOptions(config, opts); err != nil {
		panic(err)
	}

	if _, ok := os.LookupEnv("DATABASE_URL"); !ok && config.LegacyDatabaseDSN != "" {
		config.DatabaseDSN = config.LegacyDatabaseDSN
	}
}
