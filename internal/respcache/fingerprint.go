package respcache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
)

// Key is the set of inputs that determine a cached response. Two requests
// with the same Key are interchangeable as far as the cache is concerned:
// same opening message, same persona configuration.
type Key struct {
	Message    string
	Style      string
	UserGender string
	BotGender  string
}

// Fingerprint derives a stable cache key from the tuple. Each field is
// length-prefixed before hashing so that no two distinct tuples can
// collide by shifting bytes between fields.
func Fingerprint(k Key) string {
	h := sha256.New()
	for _, field := range []string{k.Message, k.Style, k.UserGender, k.BotGender} {
		var n [8]byte
		binary.BigEndian.PutUint64(n[:], uint64(len(field)))
		h.Write(n[:])
		h.Write([]byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}
