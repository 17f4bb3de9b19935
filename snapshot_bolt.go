package midx

import (
	"fmt"

	"go.etcd.io/bbolt"
)

// BoltSnapshotStore is an optional place to park Snapshot() blobs on disk,
// one bbolt bucket holding tag-keyed blobs, mirroring the teacher's use of
// a single bbolt bucket for named, versioned state blobs (schemastate.go's
// tableStateKey / tableState). It is deliberately outside Engine's own
// logic: Engine never imports this type, never opens a file, and has no
// notion that a BoltSnapshotStore exists. A caller who wants snapshots on
// disk composes Engine.Snapshot() with Save, and RestoreInto with Load, by
// hand — exactly as the teacher's own tests compose Tx.Dump with a file
// write rather than having the dump logic know about files.
//
// This keeps durability a Non-goal of the engine itself (spec §1/§7) while
// still giving bbolt, one of the teacher's two domain dependencies, a
// genuine and exercised home.
type BoltSnapshotStore struct {
	db     *bbolt.DB
	bucket []byte
}

// OpenBoltSnapshotStore opens (creating if necessary) a bbolt database at
// path and ensures the named bucket exists.
func OpenBoltSnapshotStore(path string, bucket string) (*BoltSnapshotStore, error) {
	db, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, err
	}
	s := &BoltSnapshotStore{db: db, bucket: []byte(bucket)}
	if err := s.db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(s.bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Save stores blob under tag, overwriting any previous blob at that tag.
func (s *BoltSnapshotStore) Save(tag string, blob []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return fmt.Errorf("midx: bucket %q missing", s.bucket)
		}
		return b.Put([]byte(tag), blob)
	})
}

// Load retrieves the blob stored under tag, if any. The returned slice is a
// copy safe to retain past the surrounding transaction, per bbolt's own
// "byte slice returned from Get is only valid for the life of the
// transaction" rule.
func (s *BoltSnapshotStore) Load(tag string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(tag)); v != nil {
			out = append([]byte(nil), v...)
		}
		return nil
	})
	return out, out != nil, err
}

// Close closes the underlying bbolt database.
func (s *BoltSnapshotStore) Close() error {
	return s.db.Close()
}
