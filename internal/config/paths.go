package config

import (
	"errors"
	"os"
	"path/filepath"
)

const (
	FileName     = "castaway.yaml"
	SaveFileName = "saves.db"
	EnvFileName  = ".env"
)

func appSupportDir() (string, error) {
	if dir := os.Getenv("CASTAWAY_HOME"); dir != "" {
		return dir, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	if base == "" {
		return "", errors.New("config directory not found")
	}
	return filepath.Join(base, "Castaway"), nil
}

// Path is where the config file lives when no -config flag is given.
func Path() (string, error) {
	dir, err := appSupportDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// DefaultSavePath is the SQLite database that holds save slots.
func DefaultSavePath() string {
	dir, err := appSupportDir()
	if err != nil {
		return SaveFileName
	}
	return filepath.Join(dir, SaveFileName)
}
