// Package gameid generates sortable hand identifiers.
//
// An id is a UUIDv7 written as 26 Crockford base32 characters, so ids sort
// by creation time and fit in file names.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/coder/quartz"
)

const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// RandSource supplies the random bits of an id. *math/rand/v2.Rand satisfies it.
type RandSource interface {
	IntN(n int) int
}

// Generator creates hand ids from a clock and a random source
type Generator struct {
	clock quartz.Clock
	rand  RandSource
}

// NewGenerator creates a generator. A nil RandSource uses crypto/rand.
func NewGenerator(clock quartz.Clock, rand RandSource) *Generator {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &Generator{clock: clock, rand: rand}
}

// Generate returns a new id
func (g *Generator) Generate() string {
	return encode(g.uuid())
}

func (g *Generator) uuid() [16]byte {
	var u [16]byte

	ms := g.clock.Now().UnixMilli()
	for i := 0; i < 6; i++ {
		u[i] = byte(ms >> (40 - 8*i))
	}

	if g.rand != nil {
		for i := 6; i < 16; i++ {
			u[i] = byte(g.rand.IntN(256))
		}
	} else if _, err := rand.Read(u[6:]); err != nil {
		panic("gameid: reading random bytes: " + err.Error())
	}

	u[6] = (u[6] & 0x0f) | 0x70 // version 7
	u[8] = (u[8] & 0x3f) | 0x80 // RFC 4122 variant
	return u
}

// encode writes 128 bits as 26 base32 digits, most significant first.
// The leading digit carries only 3 bits.
func encode(u [16]byte) string {
	out := make([]byte, 26)
	for i := 25; i >= 0; i-- {
		bit := 128 - 5*(26-i) // lowest bit index of this digit, counted from the MSB end
		var v byte
		for b := 0; b < 5; b++ {
			pos := bit + b // bit position from the most significant end
			if pos < 0 {
				continue
			}
			if u[pos/8]&(0x80>>(pos%8)) != 0 {
				v |= 1 << (4 - b)
			}
		}
		out[i] = alphabet[v]
	}
	return string(out)
}

// Validate checks that id is a well formed hand id
func Validate(id string) error {
	if len(id) != 26 {
		return fmt.Errorf("hand id must be 26 characters, got %d", len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("hand id first character must be 0-7, got %c", id[0])
	}
	for i, c := range id {
		if !strings.ContainsRune(alphabet, c) {
			return fmt.Errorf("invalid character %c at position %d", c, i)
		}
	}
	return nil
}
