package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// dotenvCandidates lists env files from highest to lowest priority.
// godotenv never overwrites a variable that is already set, so the first file wins
// and real OS env vars beat all of them.
func dotenvCandidates(env string) []string {
	files := []string{".env.local"}
	if env != "" {
		files = append(files, ".env."+env)
	}
	return append(files, ".env")
}

// LoadDotEnv loads .env.local, .env.$APP_ENV and .env when present.
// Returns the files actually loaded.
func LoadDotEnv() []string {
	var loaded []string
	for _, f := range dotenvCandidates(os.Getenv("APP_ENV")) {
		if _, err := os.Stat(f); err == nil {
			loaded = append(loaded, f)
		}
	}
	if len(loaded) > 0 {
		_ = godotenv.Load(loaded...)
	}
	return loaded
}

// PathForEnv returns configs/config.<env>.yaml, defaulting env to "local"
func PathForEnv(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}
