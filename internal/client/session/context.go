package session

import "sync"

// SessionContext is the binding between the session and outgoing HTTP
// requests. It implements api.TokenSource; the API client copies Token into
// the Authorization header of every request it sends.
type SessionContext struct {
	mu    sync.RWMutex
	token string
}

// NewSessionContext returns an unbound context.
func NewSessionContext() *SessionContext {
	return &SessionContext{}
}

// Token returns the bound token, or "" when signed out.
func (c *SessionContext) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Bind replaces the token sent with subsequent requests.
func (c *SessionContext) Bind(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Clear unbinds the token.
func (c *SessionContext) Clear() {
	c.Bind("")
}
