package store

import (
	"runtime"
	"sort"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/util"
	"golang.org/x/sync/errgroup"

	"ziproto/value"
)

// Put stores v under key, replacing any previous value.
func (s *Store) Put(key string, v value.Value) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	if !s.locker.TryLock(key) {
		return errors.Wrap(ErrKeyBusy, key)
	}
	defer s.locker.Unlock(key)

	r, err := s.newRecord(v)
	if err != nil {
		return errors.Wrapf(err, "error encoding %s", key)
	}
	if err := s.db.Put(valuesPrefix(key), r.bytes(), nil); err != nil {
		return errors.Wrap(err, "error writing value")
	}
	s.stats.recordPut(r)
	s.uncache(key)
	return nil
}

// PutMany encodes values concurrently and writes them in one batch, so
// either all of them are stored or none is.
func (s *Store) PutMany(values map[string]value.Value) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "" {
			return ErrEmptyKey
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for i, k := range keys {
		if !s.locker.TryLock(k) {
			for _, held := range keys[:i] {
				s.locker.Unlock(held)
			}
			return errors.Wrap(ErrKeyBusy, k)
		}
	}
	defer func() {
		for _, k := range keys {
			s.locker.Unlock(k)
		}
	}()

	records := make([]*record, len(keys))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, k := range keys {
		i, k := i, k
		g.Go(func() error {
			r, err := s.newRecord(values[k])
			if err != nil {
				return errors.Wrapf(err, "error encoding %s", k)
			}
			records[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	for i, k := range keys {
		batch.Put(valuesPrefix(k), records[i].bytes())
	}
	if err := s.db.Write(batch, nil); err != nil {
		return errors.Wrap(err, "error writing batch")
	}
	for i, k := range keys {
		s.stats.recordPut(records[i])
		s.uncache(k)
	}
	logger.Debug("wrote batch", "values", len(keys))
	return nil
}

// Get returns the value stored under key. Values served from the cache are
// shared and must not be modified.
func (s *Store) Get(key string) (value.Value, error) {
	if err := s.checkKey(key); err != nil {
		return nil, err
	}
	s.stats.gets.Inc()
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			s.stats.cacheHits.Inc()
			return v.(value.Value), nil
		}
	}

	b, err := s.db.Get(valuesPrefix(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, errors.Wrap(ErrNotFound, key)
	}
	if err != nil {
		return nil, errors.Wrap(err, "error reading value")
	}
	v, _, err := s.decodeRecord(b)
	if err != nil {
		return nil, errors.Wrapf(err, "key %s", key)
	}
	if s.cache != nil {
		s.cache.Set(key, v)
	}
	return v, nil
}

func (s *Store) Has(key string) (bool, error) {
	if err := s.checkKey(key); err != nil {
		return false, err
	}
	ok, err := s.db.Has(valuesPrefix(key), nil)
	if err != nil {
		return false, errors.Wrap(err, "error checking value existence")
	}
	return ok, nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	if !s.locker.TryLock(key) {
		return errors.Wrap(ErrKeyBusy, key)
	}
	defer s.locker.Unlock(key)

	if err := s.db.Delete(valuesPrefix(key), nil); err != nil {
		return errors.Wrap(err, "error deleting value")
	}
	s.stats.deletes.Inc()
	s.uncache(key)
	return nil
}

// Update replaces the value under key with the result of fn. fn receives
// nil when the key is absent and may return nil to delete it. Only one
// update may hold a key at a time; others fail with ErrKeyBusy.
func (s *Store) Update(key string, fn func(current value.Value) (value.Value, error)) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	if !s.locker.TryLock(key) {
		return errors.Wrap(ErrKeyBusy, key)
	}
	defer s.locker.Unlock(key)

	var written *record
	deleted := false
	err := WithTx(s.db, func(tx *leveldb.Transaction) error {
		var current value.Value
		b, err := tx.Get(valuesPrefix(key), nil)
		switch {
		case errors.Is(err, leveldb.ErrNotFound):
		case err != nil:
			return errors.Wrap(err, "error reading value")
		default:
			if current, _, err = s.decodeRecord(b); err != nil {
				return errors.Wrapf(err, "key %s", key)
			}
		}

		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			deleted = true
			return tx.Delete(valuesPrefix(key), nil)
		}
		r, err := s.newRecord(next)
		if err != nil {
			return errors.Wrapf(err, "error encoding %s", key)
		}
		written = r
		return tx.Put(valuesPrefix(key), r.bytes(), nil)
	})
	if err != nil {
		return err
	}

	switch {
	case deleted:
		s.stats.deletes.Inc()
	case written != nil:
		s.stats.recordPut(written)
	}
	s.uncache(key)
	return nil
}

// Keys lists the stored keys starting with prefix, in byte order.
func (s *Store) Keys(prefix string) ([]string, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	iter := s.db.NewIterator(util.BytesPrefix(valuesPrefix(prefix)), nil)
	defer iter.Release()
	strip := len(valuesPrefix(""))
	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()[strip:]))
	}
	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "error listing keys")
	}
	return keys, nil
}

// Iterate calls fn for every value whose key starts with prefix, in key
// order. An error from fn stops the iteration and is returned.
func (s *Store) Iterate(prefix string, fn func(key string, v value.Value) error) error {
	stream, err := s.Stream(prefix)
	if err != nil {
		return err
	}
	for {
		key, v, err := stream.Next()
		if err != nil {
			stream.Close()
			return err
		}
		if v == nil {
			break
		}
		if err := fn(key, v); err != nil {
			stream.Close()
			return err
		}
	}
	return stream.Close()
}

type ValueStream struct {
	s     *Store
	iter  iterator.Iterator
	strip int
}

// Next returns the next key and value, or a nil value once the stream is
// exhausted.
func (vs *ValueStream) Next() (string, value.Value, error) {
	if !vs.iter.Next() {
		return "", nil, nil
	}
	key := string(vs.iter.Key()[vs.strip:])
	v, _, err := vs.s.decodeRecord(vs.iter.Value())
	if err != nil {
		return "", nil, errors.Wrapf(err, "key %s", key)
	}
	return key, v, nil
}

func (vs *ValueStream) Close() error {
	vs.iter.Release()
	return vs.iter.Error()
}

func (s *Store) Stream(prefix string) (*ValueStream, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return &ValueStream{
		s:     s,
		iter:  s.db.NewIterator(util.BytesPrefix(valuesPrefix(prefix)), nil),
		strip: len(valuesPrefix("")),
	}, nil
}

func (s *Store) checkKey(key string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func (s *Store) uncache(key string) {
	if s.cache != nil {
		s.cache.Del(key)
	}
}
