package tool

import (
	"strings"

	"github.com/google/uuid"
)

func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}

// GenerateOrderReference returns a payment order reference accepted by the payment provider.
func GenerateOrderReference() string {
	return "KD-" + strings.ReplaceAll(GenerateUUIDV7(), "-", "")
}

func IsUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
