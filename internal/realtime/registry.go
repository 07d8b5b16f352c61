package realtime

import (
	"sync"
)

// Connection is a live client connection owned by one user.
type Connection interface {
	ID() string
	Send(frame []byte) error
	Close() error
}

// Registry maps user ids to their live connections. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]map[string]Connection
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[string]map[string]Connection)}
}

// Register adds conn under userID.
func (r *Registry) Register(userID string, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[userID]
	if !ok {
		set = make(map[string]Connection)
		r.conns[userID] = set
	}
	set[conn.ID()] = conn
}

// Unregister removes conn from userID. Removing an unknown connection is a no-op.
func (r *Registry) Unregister(userID string, conn Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.conns[userID]
	if !ok {
		return
	}
	delete(set, conn.ID())
	if len(set) == 0 {
		delete(r.conns, userID)
	}
}

// Connections returns a snapshot of the live connections for userID.
func (r *Registry) Connections(userID string) []Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set := r.conns[userID]
	out := make([]Connection, 0, len(set))
	for _, c := range set {
		out = append(out, c)
	}
	return out
}

// Count returns the number of live connections for userID.
func (r *Registry) Count(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns[userID])
}

// Users returns the number of users with at least one live connection.
func (r *Registry) Users() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}

// CloseAll closes every registered connection and empties the registry.
// It returns the number of connections closed.
func (r *Registry) CloseAll() int {
	r.mu.Lock()
	all := r.conns
	r.conns = make(map[string]map[string]Connection)
	r.mu.Unlock()

	n := 0
	for _, set := range all {
		for _, c := range set {
			_ = c.Close()
			n++
		}
	}
	return n
}
