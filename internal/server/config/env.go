package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/joho/godotenv"
)

const envPrefix = "GOPHBLOG_"

// parseEnv overlays Config with GOPHBLOG_* environment variables.
//
// Before reading the environment it loads a dotenv file: the one named by
// -env-file/-envfile, or ./.env when present. Variables already set in the
// process environment win over the file. A missing ./.env is not an error;
// a missing explicitly named file panics, like a bad JSON config does.
//
// Durations accept Go syntax ("15m"). Lists are comma-separated.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlags(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&cfg.EndpointAddrHTTP, "HTTP_ADDR")
	envString(&cfg.EndpointAddrGRPC, "GRPC_ADDR")
	envString(&cfg.SecretKey, "SECRET_KEY")
	envString(&cfg.PasswordAlgorithm, "PASSWORD_ALGORITHM")
	envString(&cfg.AdminUsername, "ADMIN_USERNAME")
	envString(&cfg.AdminEmail, "ADMIN_EMAIL")
	envString(&cfg.AdminPassword, "ADMIN_PASSWORD")
	envString(&cfg.S3RootUser, "S3_ROOT_USER")
	envString(&cfg.S3RootPassword, "S3_ROOT_PASSWORD")
	envString(&cfg.S3Region, "S3_REGION")
	envString(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	envString(&cfg.LogLevel, "LOG_LEVEL")

	// Explicitly empty values are meaningful: in-memory storage and
	// attachments disabled.
	if v, ok := os.LookupEnv(envPrefix + "DATABASE_DSN"); ok {
		cfg.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv(envPrefix + "S3_BUCKET"); ok {
		cfg.S3Bucket = v
	}

	if v := os.Getenv(envPrefix + "ACCESS_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			panic(err)
		}
		cfg.AccessTokenValidityDuration = d
	}
	envInt(&cfg.BcryptCost, "BCRYPT_COST")
	envInt(&cfg.HashWorkers, "HASH_WORKERS")

	if v := os.Getenv(envPrefix + "CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}
}

func envString(dst *string, name string) {
	if v := os.Getenv(envPrefix + name); v != "" {
		*dst = v
	}
}

func envInt(dst *int, name string) {
	v := os.Getenv(envPrefix + name)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
