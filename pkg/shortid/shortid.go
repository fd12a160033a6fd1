// Package shortid mints the short identifiers used as object keys and
// public path segments. IDs come from crypto/rand, so successive calls
// are independent and leak no ordering; uniqueness is probabilistic
// (64^11 keyspace), never checked against the store.
package shortid

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	// Alphabet keeps IDs URL-safe without percent-encoding.
	Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"
	Length   = 11
)

// New returns a fresh identifier matching [A-Za-z0-9_-]{11}.
func New() (string, error) {
	return gonanoid.Generate(Alphabet, Length)
}
