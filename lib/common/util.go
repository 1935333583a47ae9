package common

import (
	"os"

	uuid "github.com/satori/go.uuid"
)

// GetUniqueIDFromUUID returns time based uuid, so the ids created later are
// sorted after the earlier ones.
func GetUniqueIDFromUUID() string {
	return uuid.Must(uuid.NewV1(), nil).String()
}

// GetENVValue is the value of the environment variable `key`, or
// `defaultValue` when it is not set. An empty value counts as set.
func GetENVValue(key, defaultValue string) string {
	if v, found := os.LookupEnv(key); found {
		return v
	}

	return defaultValue
}
