package ws

// connectionManager tracks every live connection the hub knows about.
type connectionManager struct {
	conns map[*clientConn]struct{}
}

func newConnectionManager() *connectionManager {
	return &connectionManager{conns: make(map[*clientConn]struct{})}
}

func (m *connectionManager) add(c *clientConn) { m.conns[c] = struct{}{} }

func (m *connectionManager) remove(c *clientConn) bool {
	if _, ok := m.conns[c]; !ok {
		return false
	}
	delete(m.conns, c)
	return true
}

func (m *connectionManager) len() int { return len(m.conns) }
