package store

import "github.com/paktum-network/paktum"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = paktum.ReadOnlyKVStore
type KVStore = paktum.KVStore
type SetDeleter = paktum.SetDeleter
type Batch = paktum.Batch
type CacheableKVStore = paktum.CacheableKVStore
type KVCacheWrap = paktum.KVCacheWrap
