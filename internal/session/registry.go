package session

import (
	"sync"

	"tinytribe-backend/internal/invite"
)

// Registry hands out one Resolver per client session. Sessions are keyed by
// the opaque session ID the client generates at install time and sends in
// the X-Session-ID header.
type Registry struct {
	mu        sync.Mutex
	resolvers map[string]*Resolver

	codec  *invite.Codec
	joiner Joiner
}

func NewRegistry(codec *invite.Codec, joiner Joiner) *Registry {
	return &Registry{
		resolvers: make(map[string]*Resolver),
		codec:     codec,
		joiner:    joiner,
	}
}

// Get returns the session's resolver, creating it on first use.
func (r *Registry) Get(sessionID string) *Resolver {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resolvers[sessionID]
	if !ok {
		res = NewResolver(r.codec, r.joiner)
		r.resolvers[sessionID] = res
	}
	return res
}

// Drop clears the session's resolver on sign-out or session teardown.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if res, ok := r.resolvers[sessionID]; ok {
		res.OnSignOut()
		delete(r.resolvers, sessionID)
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.resolvers)
}
