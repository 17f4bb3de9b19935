package midx

import (
	"github.com/vmihailenco/msgpack/v5"
)

// snapshotRecord is the wire shape of one live record in a Snapshot blob.
// Field tags follow the teacher's convention of short msgpack field names
// for compactness (tableState/indexState in schemastate.go).
type snapshotRecord[K any, P any] struct {
	Key K `msgpack:"k"`
	Val P `msgpack:"v"`
}

// Snapshot encodes every currently-live (key, payload) pair into a single
// msgpack blob, in primary iteration order. This is a diagnostic dump, not
// a durability mechanism (spec §1/§7 exclude both a wire format and
// durability as goals): it is the in-memory analogue of the teacher's
// Tx.Dump (debug.go), recast from a human-readable bucket report into a
// round-trippable byte encoding, since an in-memory engine has no natural
// on-disk representation to report on.
//
// K and P must be msgpack-encodable, the same constraint the teacher places
// on row types via struct tags (db_test.go's User/Widget/Post).
func (e *Engine[K, P, Pol]) Snapshot() ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	recs := make([]snapshotRecord[K, P], 0, int(e.live.load()))
	e.policy.iterate(func(h Handle[K, P]) bool {
		recs = append(recs, snapshotRecord[K, P]{Key: h.Key(), Val: h.Payload()})
		return true
	})
	return msgpack.Marshal(recs)
}

// RestoreInto clears dst and repopulates it from a blob produced by
// Snapshot, via the normal Emplace path (so every secondary is rebuilt and
// re-validated, not blindly trusted from the blob). It returns the number
// of records restored and the number rejected by a uniqueness clash against
// an earlier record in the same blob (which should never happen for a blob
// produced by Snapshot of a coherent engine, but a hand-edited or corrupted
// blob is not trusted to honor that).
func RestoreInto[K comparable, P any, Pol Policy[K, P]](dst *Engine[K, P, Pol], blob []byte) (restored, rejected int, err error) {
	var recs []snapshotRecord[K, P]
	if err := msgpack.Unmarshal(blob, &recs); err != nil {
		return 0, 0, err
	}
	dst.Clear()
	for _, r := range recs {
		if _, ok := dst.Emplace(r.Key, r.Val); ok {
			restored++
		} else {
			rejected++
		}
	}
	return restored, rejected, nil
}
