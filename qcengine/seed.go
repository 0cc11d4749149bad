package qcengine

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed draws a seed for the default source from crypto/rand. The simulator
// itself only needs a reproducible pseudo-random stream; the seed is recorded
// on every Result so a run can be replayed.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	// Keep seeds positive so 0 can mean "pick one".
	return int64(binary.LittleEndian.Uint64(b[:])>>1) | 1, nil
}
