package utils

import (
	"os"
	"strings"

	"github.com/google/uuid"
)

func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

// NewReferenceCode returns a short, customer-facing booking reference like
// "BK-5F3A9C1D".
func NewReferenceCode() string {
	id := uuid.New().String()
	return "BK-" + strings.ToUpper(id[:8])
}
