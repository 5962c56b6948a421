package cache

import (
	"encoding/binary"
	"hash/fnv"

	"github.com/Sumatoshi-tech/rectsweep/pkg/geom"
)

// SceneKey identifies a decomposition input.
type SceneKey [16]byte

// KeyOf hashes base and obstructions in order. Reordered obstructions give a
// different key; the sweep output can differ with order too.
func KeyOf(base geom.Rect, obstructions []geom.Rect) SceneKey {
	h := fnv.New128a()

	var buf [8]byte

	write := func(r geom.Rect) {
		for _, v := range [...]int{r.X, r.Y, r.Width, r.Height} {
			binary.LittleEndian.PutUint64(buf[:], uint64(int64(v))) //nolint:gosec // two's complement bits are what we hash
			_, _ = h.Write(buf[:])
		}
	}

	write(base)

	for _, obs := range obstructions {
		write(obs)
	}

	var key SceneKey

	copy(key[:], h.Sum(nil))

	return key
}
