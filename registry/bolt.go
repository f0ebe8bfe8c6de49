// Copyright 2025 Contriboss
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package registry

import (
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/solvegraph/pubgrub"
)

var (
	versionsBucket = []byte("versions")
	depsBucket     = []byte("deps")
)

// BoltSource wraps a pubgrub.Source with a bbolt-persisted cache, so repeated
// solves against the same registry (across process restarts) skip re-fetching
// versions and dependencies from the underlying source. Mirrors the in-memory
// caching done by pubgrub.CachedSource, but durable on disk.
type BoltSource struct {
	upstream pubgrub.Source
	db       *bbolt.DB
}

// OpenBoltSource opens (creating if necessary) a bbolt database at path and
// wraps upstream with a disk-backed cache over it.
func OpenBoltSource(path string, upstream pubgrub.Source) (*BoltSource, error) {
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("opening bolt cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(versionsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(depsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing bolt cache buckets: %w", err)
	}

	return &BoltSource{upstream: upstream, db: db}, nil
}

// Close releases the underlying bbolt database handle.
func (b *BoltSource) Close() error {
	return b.db.Close()
}

// depRecord is the on-disk shape of a cached dependency term: the dependency
// name paired with its condition rendered through String(), re-parsed with
// pubgrub.ParseVersionRange on read (which also accepts the "== x.y.z" form
// EqualsCondition renders, and "*" for an unconstrained dependency).
type depRecord struct {
	Name      string `json:"name"`
	Condition string `json:"condition"`
}

// GetVersions returns cached versions for name, falling back to upstream and
// persisting the result on a miss.
func (b *BoltSource) GetVersions(name pubgrub.Name) ([]pubgrub.Version, error) {
	var cached []string
	err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(versionsBucket).Get([]byte(name.Value()))
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &cached)
	})
	if err != nil {
		return nil, fmt.Errorf("reading version cache for %s: %w", name.Value(), err)
	}
	if cached != nil {
		versions := make([]pubgrub.Version, 0, len(cached))
		for _, raw := range cached {
			versions = append(versions, parseVersion(raw))
		}
		return versions, nil
	}

	versions, err := b.upstream.GetVersions(name)
	if err != nil {
		return nil, err
	}

	encoded := make([]string, 0, len(versions))
	for _, v := range versions {
		encoded = append(encoded, v.String())
	}
	raw, err := json.Marshal(encoded)
	if err != nil {
		return nil, fmt.Errorf("encoding version cache for %s: %w", name.Value(), err)
	}
	if err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(versionsBucket).Put([]byte(name.Value()), raw)
	}); err != nil {
		return nil, fmt.Errorf("writing version cache for %s: %w", name.Value(), err)
	}

	// Return the versions as a later cache hit decodes them, so a miss and
	// a hit yield the same values.
	decoded := make([]pubgrub.Version, 0, len(encoded))
	for _, raw := range encoded {
		decoded = append(decoded, parseVersion(raw))
	}
	return decoded, nil
}

// GetDependencies returns cached dependency terms for name@version, falling
// back to upstream and persisting the result on a miss.
func (b *BoltSource) GetDependencies(name pubgrub.Name, version pubgrub.Version) ([]pubgrub.Term, error) {
	key := []byte(fmt.Sprintf("%s@%s", name.Value(), version.String()))

	var cached []depRecord
	err := b.db.View(func(tx *bbolt.Tx) error {
		raw := tx.Bucket(depsBucket).Get(key)
		if raw == nil {
			return nil
		}
		return json.Unmarshal(raw, &cached)
	})
	if err != nil {
		return nil, fmt.Errorf("reading dependency cache for %s: %w", key, err)
	}
	if cached != nil {
		terms := make([]pubgrub.Term, 0, len(cached))
		for _, rec := range cached {
			set, err := pubgrub.ParseVersionRange(rec.Condition)
			if err != nil {
				return nil, fmt.Errorf("parsing cached condition %q for %s: %w", rec.Condition, rec.Name, err)
			}
			terms = append(terms, pubgrub.NewTerm(pubgrub.MakeName(rec.Name), pubgrub.NewVersionSetCondition(set)))
		}
		return terms, nil
	}

	terms, err := b.upstream.GetDependencies(name, version)
	if err != nil {
		return nil, err
	}

	records := make([]depRecord, 0, len(terms))
	for _, t := range terms {
		records = append(records, depRecord{Name: t.Name.Value(), Condition: t.Condition.String()})
	}
	raw, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encoding dependency cache for %s: %w", key, err)
	}
	if err := b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(depsBucket).Put(key, raw)
	}); err != nil {
		return nil, fmt.Errorf("writing dependency cache for %s: %w", key, err)
	}

	return terms, nil
}

var _ pubgrub.Source = (*BoltSource)(nil)
