package wallet

import (
	"fmt"
	"time"
)

// LoginMessage is the text clients are asked to sign when logging in. The
// timestamp makes each message distinct; the verifier does not parse it.
func LoginMessage(address string, at time.Time) string {
	return fmt.Sprintf("Sign in to VYNS\n\nWallet: %s\nTimestamp: %d", address, at.UnixMilli())
}
