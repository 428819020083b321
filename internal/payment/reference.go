// Package payment opens hosted checkouts for fixed-price services and
// verifies their outcome against the provider.
package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateReference produces a payment reference from the prefix, the
// current time, and a random suffix. References are distinct with
// overwhelming probability but are not reserved server-side.
func GenerateReference(prefix string) string {
	suffix := make([]byte, 6)
	if _, err := rand.Read(suffix); err != nil {
		// crypto/rand only fails if the platform source is broken.
		return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
	}
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), hex.EncodeToString(suffix))
}
