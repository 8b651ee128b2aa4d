package session

import (
	"context"
	"sync"

	"tinytribe-backend/internal/invite"
	"tinytribe-backend/internal/logger"
)

// State of a resolver. There is no stored Resolved state: handling an invite
// is terminal per invite, so the resolver reports the outcome to the caller
// and settles back into Idle.
type State int

const (
	// StateIdle means no invite is pending.
	StateIdle State = iota
	// StateAwaitingAuth means a decoded group ID is held until the session
	// gains an authenticated identity.
	StateAwaitingAuth
)

// Joiner finalizes a membership transition once an invite and an identity
// have both arrived. Satisfied by service.GroupService.
type Joiner interface {
	JoinGroup(ctx context.Context, identity, groupID string) error
}

// Outcome of feeding an invite link or auth change into the resolver.
type Outcome string

const (
	OutcomeJoined  Outcome = "joined"  // join performed now
	OutcomePending Outcome = "pending" // group ID held until authentication
	OutcomeIgnored Outcome = "ignored" // nothing to do
)

// Resolver reconciles incoming invite links against the session's
// authentication state. The pending group ID lives only here, in process
// memory; it is never written to durable storage.
type Resolver struct {
	mu      sync.Mutex
	state   State
	pending string

	codec  *invite.Codec
	joiner Joiner
}

func NewResolver(codec *invite.Codec, joiner Joiner) *Resolver {
	return &Resolver{
		state:  StateIdle,
		codec:  codec,
		joiner: joiner,
	}
}

// HandleInviteURL processes a deep link. identity is empty for an
// unauthenticated session. A link that does not decode leaves the state
// unchanged and returns invite.ErrMalformed; it may be an unrelated deep
// link, so callers treat it as non-fatal.
func (r *Resolver) HandleInviteURL(ctx context.Context, identity, raw string) (Outcome, error) {
	groupID, err := r.codec.Decode(raw)
	if err != nil {
		return OutcomeIgnored, err
	}

	if identity == "" {
		r.mu.Lock()
		// A newer invite replaces any previously held one.
		r.pending = groupID
		r.state = StateAwaitingAuth
		r.mu.Unlock()
		logger.Debug("Invite held until authentication", "group_id", groupID)
		return OutcomePending, nil
	}

	if err := r.joiner.JoinGroup(ctx, identity, groupID); err != nil {
		return OutcomeIgnored, err
	}
	return OutcomeJoined, nil
}

// OnAuthenticated is called when the session gains an identity. If an invite
// is pending it is resolved now; otherwise this is a no-op. On a join
// failure the pending invite is kept so the caller may retry.
func (r *Resolver) OnAuthenticated(ctx context.Context, identity string) (Outcome, string, error) {
	r.mu.Lock()
	if r.state != StateAwaitingAuth {
		r.mu.Unlock()
		return OutcomeIgnored, "", nil
	}
	groupID := r.pending
	r.mu.Unlock()

	if err := r.joiner.JoinGroup(ctx, identity, groupID); err != nil {
		return OutcomeIgnored, groupID, err
	}

	r.mu.Lock()
	r.pending = ""
	r.state = StateIdle
	r.mu.Unlock()
	return OutcomeJoined, groupID, nil
}

// OnSignOut drops any pending invite. A dropped invite is not retried; the
// user must open the link again.
func (r *Resolver) OnSignOut() {
	r.mu.Lock()
	r.pending = ""
	r.state = StateIdle
	r.mu.Unlock()
}

// State returns the current state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Pending returns the held group ID, if any.
func (r *Resolver) Pending() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending, r.state == StateAwaitingAuth
}
