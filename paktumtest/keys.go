package paktumtest

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"

	"github.com/paktum-network/paktum"
)

// NewCondition returns a random condition. Each call generates a unique
// payload so no two conditions (or their addresses) collide.
func NewCondition() paktum.Condition {
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		panic(fmt.Sprintf("cannot generate a random condition: %s", err))
	}
	return paktum.NewCondition("test", "rnd", raw)
}

// SequenceID returns an ID encoded the same way bucket sequences
// encode theirs.
func SequenceID(n uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, n)
	return b
}
