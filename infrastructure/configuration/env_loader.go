package configuration

import (
	"os"

	"streamhub/infrastructure/logger"

	"github.com/joho/godotenv"
)

// LoadEnvFromFile loads the given dotenv files (config.env, .env) into the process environment.
// Missing files are skipped and variables already set keep their value. It returns the files that were read.
func LoadEnvFromFile(paths ...string) []string {
	var loaded []string
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			logger.GetLogger().WithField("file", p).WithField("error", err).Warn("Cannot parse env file")
			continue
		}
		loaded = append(loaded, p)
	}
	return loaded
}
