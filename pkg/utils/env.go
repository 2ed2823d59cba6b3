package utils

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// LoadEnvironment loads environment variables from .env files, first from
// the current directory and then from the directory of the executable.
// Missing files are not an error.
func LoadEnvironment() {
	_ = godotenv.Load()

	execPath, err := os.Executable()
	if err != nil {
		return
	}
	_ = godotenv.Load(filepath.Join(filepath.Dir(execPath), ".env"))
}
