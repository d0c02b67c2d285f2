package experiment

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variables that override configuration values
const (
	EnvConfig = "MAZEVI_CONFIG"
	EnvSeed   = "MAZEVI_SEED"
	EnvGamma  = "MAZEVI_GAMMA"
	EnvTheta  = "MAZEVI_THETA"
)

// LoadEnv loads environment variables from the given .env files, or
// from ./.env if none are given. A missing file is not an error.
func LoadEnv(files ...string) {
	if err := godotenv.Load(files...); err != nil {
		Logf(".env file not found or could not be loaded: %v", err)
	}
}

// ConfigFile returns the config file named by MAZEVI_CONFIG, or def if
// the variable is unset
func ConfigFile(def string) string {
	if value, exists := os.LookupEnv(EnvConfig); exists && value != "" {
		return value
	}
	return def
}

// ApplyEnv returns c with the seed, discount and threshold overridden by
// any of MAZEVI_SEED, MAZEVI_GAMMA and MAZEVI_THETA that are set
func ApplyEnv(c Config) (Config, error) {
	if value, exists := os.LookupEnv(EnvSeed); exists {
		seed, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("applyEnv: %s must be an unsigned "+
				"integer: %v", EnvSeed, err)
		}
		c.Seed = seed
	}

	if value, exists := os.LookupEnv(EnvGamma); exists {
		gamma, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Config{}, fmt.Errorf("applyEnv: %s must be a float: %v",
				EnvGamma, err)
		}
		c.AgentConf.Gamma = gamma
	}

	if value, exists := os.LookupEnv(EnvTheta); exists {
		theta, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return Config{}, fmt.Errorf("applyEnv: %s must be a float: %v",
				EnvTheta, err)
		}
		c.AgentConf.Theta = theta
	}

	return c, c.Validate()
}
