package invite

import (
	"errors"
	"fmt"
	"net/url"
)

// ErrMalformed is returned when a string is not an invite link for this app.
// Deep links for unrelated features decode to this too, so callers usually
// log and ignore it rather than surfacing a blocking error.
var ErrMalformed = errors.New("malformed invite link")

// Codec maps group IDs to shareable deep links and back.
// The link shape is <scheme>://<host>?id=<groupID>, case-sensitive, with the
// id query parameter required. Encode and Decode round-trip for every
// non-empty group ID.
type Codec struct {
	Scheme string
	Host   string
}

func NewCodec(scheme, host string) *Codec {
	return &Codec{Scheme: scheme, Host: host}
}

// Encode builds the deep link for a group.
func (c *Codec) Encode(groupID string) string {
	u := url.URL{
		Scheme:   c.Scheme,
		Host:     c.Host,
		RawQuery: url.Values{"id": {groupID}}.Encode(),
	}
	return u.String()
}

// Decode extracts the group ID from a deep link. It never panics; every
// input string yields either a group ID or ErrMalformed.
func (c *Codec) Decode(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if u.Scheme != c.Scheme || u.Host != c.Host {
		return "", fmt.Errorf("%w: unexpected scheme or host in %q", ErrMalformed, raw)
	}
	id := u.Query().Get("id")
	if id == "" {
		return "", fmt.Errorf("%w: missing id parameter in %q", ErrMalformed, raw)
	}
	return id, nil
}
