package env

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file without overriding ones already set.
// ENV_PATH takes precedence over defaultPath. A missing file is only an error
// when env is "local" or empty; other environments are expected to inject variables directly.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Debug("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	err := godotenv.Load(envPath)
	switch {
	case err == nil:
		slog.Debug("Loaded .env", "path", envPath)
		return nil
	case env == "local" || env == "":
		return err
	case errors.Is(err, fs.ErrNotExist):
		slog.Debug("Skipping .env ...", "env", env)
		return nil
	default:
		return err
	}
}
