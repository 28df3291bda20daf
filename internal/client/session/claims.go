package session

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

var userIDClaims = []string{"id", "userId", "sub"}

// UserIDFromToken reads the user id out of a JWT access token without
// verifying it. The client has no key to verify with and treats the token
// as opaque; the id is only a hint for the first profile fetch. Non-JWT
// tokens and tokens without an id claim yield "".
func UserIDFromToken(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, name := range userIDClaims {
		switch v := claims[name].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}
