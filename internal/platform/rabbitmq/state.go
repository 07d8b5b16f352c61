package rabbitmq

// State is the lifecycle position of a consumer session.
type State int32

const (
	StateDisconnected State = iota
	StateConnecting
	StateTopologyReady
	StateConsuming
)

// String returns the state name used in logs.
func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateTopologyReady:
		return "topology_ready"
	case StateConsuming:
		return "consuming"
	default:
		return "unknown"
	}
}
