// Package uuid issues the identifiers used for ledger categories.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a time-ordered UUIDv7 so that ids sort in creation order.
// It falls back to a random UUIDv4 if the v7 generator fails.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		return googleuuid.New().String()
	}
	return id.String()
}

// Parse validates and normalizes a UUID string
func Parse(s string) (string, error) {
	parsed, err := googleuuid.Parse(s)
	if err != nil {
		return "", err
	}
	return parsed.String(), nil
}
