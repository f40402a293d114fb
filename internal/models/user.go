package models

// User is the signed-in identity as presented by the identity provider's
// ID token. It is display-only; nothing security-sensitive derives from it.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}
