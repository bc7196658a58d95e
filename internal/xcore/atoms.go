package xcore

import "github.com/BurntSushi/xgb/xproto"

// Atom interns name on first request and caches the id↔name mapping
// bidirectionally (spec.md §4.1(b)). The cache is a plain map, never an
// LRU: atoms are process-wide and monotonic — the server never forgets
// one once interned (spec.md §5 "Shared resources"), so eviction would be
// actively wrong, unlike the bounded icon cache (SPEC_FULL.md §11).
func (c *Core) Atom(name string) (xproto.Atom, error) {
	c.atomMu.RLock()
	if id, ok := c.atomByName[name]; ok {
		c.atomMu.RUnlock()
		return id, nil
	}
	c.atomMu.RUnlock()

	reply, err := xproto.InternAtom(c.Conn, false, uint16(len(name)), name).Reply()
	if err != nil {
		return 0, &XError{Kind: "InternAtom", Params: []interface{}{name}, Err: err}
	}

	c.atomMu.Lock()
	c.atomByName[name] = reply.Atom
	c.atomByID[reply.Atom] = name
	c.atomMu.Unlock()
	return reply.Atom, nil
}

// MustAtom interns name, ignoring errors, for use at startup with
// well-known atom names that are part of the core protocol and cannot
// fail against a live connection.
func (c *Core) MustAtom(name string) xproto.Atom {
	id, err := c.Atom(name)
	if err != nil {
		return xproto.AtomNone
	}
	return id
}

// AtomName resolves a cached atom id back to its name, looking it up on
// the wire and caching the result if it isn't yet known.
func (c *Core) AtomName(id xproto.Atom) (string, error) {
	c.atomMu.RLock()
	if name, ok := c.atomByID[id]; ok {
		c.atomMu.RUnlock()
		return name, nil
	}
	c.atomMu.RUnlock()

	reply, err := xproto.GetAtomName(c.Conn, id).Reply()
	if err != nil {
		return "", &XError{Kind: "GetAtomName", Params: []interface{}{id}, Err: err}
	}
	name := string(reply.Name)

	c.atomMu.Lock()
	c.atomByID[id] = name
	c.atomByName[name] = id
	c.atomMu.Unlock()
	return name, nil
}
