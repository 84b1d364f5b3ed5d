package ports

// PasswordHasher produces and checks salted one-way hashes of secrets.
// Hash is non-deterministic (per-call salt); Verify is stable and returns
// false for malformed stored hashes rather than erroring.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}
