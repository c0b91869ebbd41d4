// Package store persists values in a leveldb database. Each value is kept
// as an encoded, optionally compressed, checksummed record.
package store

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"go.uber.org/atomic"

	"ziproto/codec"
	"ziproto/compress"
	"ziproto/log"
	"ziproto/util"
)

var (
	ErrNotFound      = errors.New("value not found")
	ErrKeyBusy       = errors.New("key is being updated")
	ErrCorruptRecord = errors.New("corrupt record")
	ErrEmptyKey      = errors.New("key must not be empty")
	ErrClosed        = errors.New("store is closed")
)

type TxCb func(tx *leveldb.Transaction) error

var logger = log.WithModule("store")

var (
	valuesPrefix = prefixer("values")
)

func prefixer(prefix string) func(k ...string) []byte {
	return func(parts ...string) []byte {
		return []byte(strings.Join(append([]string{prefix}, parts...), "/"))
	}
}

type Options struct {
	Compression      compress.Algorithm
	CompressionLevel int
	Limits           codec.Limits
	// CacheSize is the number of decoded values kept in memory. Zero
	// disables the cache.
	CacheSize int
	CacheTTL  time.Duration
}

func DefaultOptions() Options {
	return Options{
		Compression: compress.Snappy,
		Limits:      codec.DefaultLimits(),
	}
}

type Store struct {
	db     *leveldb.DB
	opts   Options
	locker util.KeyLocker
	cache  *util.Cache
	closed atomic.Bool
	stats  stats
}

func Open(path string, opts Options) (*Store, error) {
	if !opts.Compression.Valid() {
		return nil, errors.Wrapf(compress.ErrUnknownAlgorithm, "%d", uint8(opts.Compression))
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrap(err, "error opening database")
	}
	s := &Store{
		db:     db,
		opts:   opts,
		locker: util.NewKeyLocker(),
	}
	if opts.CacheSize > 0 {
		s.cache = util.NewCache(opts.CacheTTL, opts.CacheSize)
	}
	logger.Debug("opened store", "path", path, "compression", opts.Compression.String())
	return s, nil
}

func (s *Store) Close() error {
	if !s.closed.CAS(false, true) {
		return ErrClosed
	}
	if err := s.db.Close(); err != nil {
		return errors.Wrap(err, "error closing database")
	}
	return nil
}

func (s *Store) checkOpen() error {
	if s.closed.Load() {
		return ErrClosed
	}
	return nil
}

func WithTx(db *leveldb.DB, cb TxCb) (err error) {
	tx, err := db.OpenTransaction()
	if err != nil {
		return errors.Wrap(err, "error opening transaction")
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Discard()
			panic(p)
		} else if err != nil {
			tx.Discard()
		} else {
			err = tx.Commit()
		}
	}()

	return cb(tx)
}
