package service

// PasswordHasher stores user passwords one-way. Login checks a candidate with
// Matches, which takes the same time whether or not the password matches.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Matches reports whether password produced hash. A malformed hash never matches.
	Matches(hash, password string) bool
}
