package chat

// registry is the authoritative set of currently live connections, keyed by
// connection id. It is owned and mutated exclusively by the Hub run loop, so
// no locking is needed; membership is always read fresh at broadcast time.
// State is volatile: every process starts with an empty registry.
type registry struct {
	conns map[string]*Client
}

func newRegistry() *registry {
	return &registry{conns: make(map[string]*Client)}
}

// add registers a connection. Connection ids are unique, so re-adding the same
// client is a no-op.
func (reg *registry) add(c *Client) {
	reg.conns[c.id] = c
}

// remove unregisters a connection id. Removing an absent id is a safe no-op;
// the boolean reports whether anything was removed.
func (reg *registry) remove(id string) (*Client, bool) {
	c, ok := reg.conns[id]
	if !ok {
		return nil, false
	}

	delete(reg.conns, id)
	return c, true
}

// all returns the current membership.
func (reg *registry) all() []*Client {
	members := make([]*Client, 0, len(reg.conns))
	for _, c := range reg.conns {
		members = append(members, c)
	}
	return members
}

func (reg *registry) size() int {
	return len(reg.conns)
}
