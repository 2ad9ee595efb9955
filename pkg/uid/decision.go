package uid

import (
	"encoding/hex"

	"lukechampine.com/frand"
)

// GenerateDecisionID returns a random 128-bit hex identifier for a recorded
// decision.
func GenerateDecisionID() string {
	return hex.EncodeToString(frand.Bytes(16))
}
