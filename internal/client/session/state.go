package session

import "github.com/dmitrijs2005/mindeducation/internal/client/models"

// State is a snapshot of the session. It is a copy; mutating it has no
// effect on the Manager.
type State struct {
	Loading bool
	Token   string
	User    *models.User
}

func (s State) Authenticated() bool {
	return s.Token != ""
}

// Redact shortens a token for log output.
func Redact(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:4] + "…" + token[len(token)-4:]
}
