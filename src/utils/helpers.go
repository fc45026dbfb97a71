package utils

import "os"

func IsProd() bool {
	env := os.Getenv("API_ENV")
	return env != "local" && env != "test"
}
