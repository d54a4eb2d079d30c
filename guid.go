package mcstatus

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// randomClientGUID derives an 8-byte RakNet client GUID from a fresh
// random UUID's low bytes rather than reaching for math/rand directly,
// since google/uuid is already wired for parsing the status ping's
// player sample ids and gives well-distributed randomness for free.
func randomClientGUID() (int64, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return 0, err
	}
	b := id[:]
	return int64(binary.BigEndian.Uint64(b[8:16])), nil
}
