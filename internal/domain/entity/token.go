package entity

import "github.com/google/uuid"

// TokenKind discriminates the two bearer credentials issued by the API.
type TokenKind string

const (
	// TokenKindAccess is the short-lived credential sent on every API call.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is the long-lived credential used only to mint a new pair.
	TokenKindRefresh TokenKind = "refresh"
)

// String returns the string representation of the TokenKind.
func (k TokenKind) String() string {
	return string(k)
}

// IsValid checks if the TokenKind is a known value.
func (k TokenKind) IsValid() bool {
	switch k {
	case TokenKindAccess, TokenKindRefresh:
		return true
	default:
		return false
	}
}

// Principal is the authenticated identity carried inside a token.
// Only the id is embedded; handlers load anything else from storage.
type Principal struct {
	ID uuid.UUID
}

// TokenPair is the access/refresh credential pair handed to a client.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
