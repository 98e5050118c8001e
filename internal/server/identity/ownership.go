package identity

import "github.com/iudanet/tweetbook/internal/server/token"

// CallerID returns the caller's user id from validated claims, "" without them
func CallerID(claims *token.Claims) string {
	if claims == nil {
		return ""
	}
	return claims.UserID
}

// OwnsResource reports whether callerID is the resource owner.
// An empty caller never owns anything.
func OwnsResource(callerID, ownerID string) bool {
	return callerID != "" && callerID == ownerID
}
