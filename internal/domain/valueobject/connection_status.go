package valueobject

import (
	"fmt"
	"strings"
)

// ConnectionStatus is the state of a directed connection request between two identities.
type ConnectionStatus struct {
	value string
}

var (
	ConnectionPending   = ConnectionStatus{value: "pending"}
	ConnectionConnected = ConnectionStatus{value: "connected"}
	ConnectionDeclined  = ConnectionStatus{value: "declined"}
	ConnectionBlocked   = ConnectionStatus{value: "blocked"}
)

// ConnectionStatusFromString reconstructs a ConnectionStatus from storage.
func ConnectionStatusFromString(s string) (ConnectionStatus, error) {
	switch strings.ToLower(s) {
	case "pending":
		return ConnectionPending, nil
	case "connected", "accepted":
		return ConnectionConnected, nil
	case "declined":
		return ConnectionDeclined, nil
	case "blocked":
		return ConnectionBlocked, nil
	default:
		return ConnectionStatus{}, fmt.Errorf("invalid connection status: %q", s)
	}
}

func (c ConnectionStatus) String() string { return c.value }

func (c ConnectionStatus) Equal(other ConnectionStatus) bool { return c.value == other.value }

// IsResolved reports whether the receiver has answered the request (accepted or declined).
func (c ConnectionStatus) IsResolved() bool {
	return c == ConnectionConnected || c == ConnectionDeclined
}
