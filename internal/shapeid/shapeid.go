// Package shapeid generates identifiers for drawn shapes. Shapes are
// created client-side, so identifiers must be practically unique across
// all clients without any server-side arbitration: two clients drawing
// within the same instant must never collide.
package shapeid

import (
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const (
	suffixLen = 8
	alphabet  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// New returns a millisecond timestamp concatenated with a fixed-length
// random alphanumeric suffix. Not cryptographically secure; the collision
// probability is negligible for tens of simultaneous authors but not zero.
func New() string {
	var b strings.Builder
	b.Grow(21)
	b.WriteString(strconv.FormatInt(time.Now().UnixMilli(), 10))
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(alphabet[rand.Intn(len(alphabet))])
	}
	return b.String()
}
