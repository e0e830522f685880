package tunnel

// State represents the lifecycle position of a tunnel.
type State int

const (
	// StateInactive indicates the tunnel is down.
	StateInactive State = iota
	// StateActivating indicates the up command was issued and has not
	// succeeded (yet). A failed activation stays here until released.
	StateActivating
	// StateActive indicates the up command succeeded.
	StateActive
	// StateDeactivating indicates the down command is running.
	StateDeactivating
)

// String returns a human-readable representation of the tunnel state.
func (s State) String() string {
	switch s {
	case StateInactive:
		return "Inactive"
	case StateActivating:
		return "Activating"
	case StateActive:
		return "Active"
	case StateDeactivating:
		return "Deactivating"
	default:
		return "Unknown"
	}
}
