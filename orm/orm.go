/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* It has a primary index (which may be composite).
* Easy queries for one object by its key.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/paktum-network/paktum"
	"github.com/paktum-network/paktum/errors"
)

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// Model is implemented by any entity that can be stored in a bucket.
type Model interface {
	paktum.Persistent

	// Validate returns an error if the model cannot be persisted in its
	// current state.
	Validate() error
}

// ModelBucket is a prefixed subspace of the DB holding entities of only
// one type.
type ModelBucket struct {
	name   string
	prefix []byte
}

// NewModelBucket creates a bucket to store data under the given name
// prefix.
func NewModelBucket(name string) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	return ModelBucket{
		name:   name,
		prefix: append([]byte(name), ':'),
	}
}

// DBKey is the full key we store in the db, including our prefix
func (b ModelBucket) DBKey(key []byte) []byte {
	// Don't add the prefix twice (recursive calls)
	l := len(b.prefix)
	if len(key) >= l && b.name == string(key[:l-1]) {
		return key
	}
	return append(b.prefix, key...)
}

// One queries the bucket for a single entity and loads it into the
// destination model. ErrNotFound is returned when no entity with given key
// exists.
func (b ModelBucket) One(db paktum.ReadOnlyKVStore, key []byte, dest Model) error {
	raw, err := db.Get(b.DBKey(key))
	if err != nil {
		return err
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrapf(err, "cannot unmarshal %s %X", b.name, key)
	}
	return nil
}

// Has returns true if an entity with given key exists in the bucket.
func (b ModelBucket) Has(db paktum.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Put saves given model in the database. The model is validated before
// being written.
func (b ModelBucket) Put(db paktum.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "missing key")
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "cannot marshal %s", b.name)
	}
	return db.Set(b.DBKey(key), raw)
}

// Delete removes an entity with given key from the bucket. It is not an
// error to delete a non existing entity.
func (b ModelBucket) Delete(db paktum.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}
