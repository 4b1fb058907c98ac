package app

import (
	"os"
	"strings"
)

func envBoolOptional(key string) (bool, bool) {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return false, false
	}
	if val == "1" || strings.EqualFold(val, "true") {
		return true, true
	}
	if val == "0" || strings.EqualFold(val, "false") {
		return false, true
	}
	return false, false
}
