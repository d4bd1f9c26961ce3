package config

import "os"

func IsDebug() bool {
	return os.Getenv("RELIEF_DEBUG") == "1"
}
