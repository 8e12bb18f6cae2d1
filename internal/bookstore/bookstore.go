// Package bookstore is an optional, disk-backed cache for opening-book
// moves and perft node counts, keyed by Zobrist hash. It sits beside
// the engine, not inside it: board and search never import it, and a
// driver that never opens a Store gets identical search behavior. It
// exists as the "future hook" for persisted state that the core
// purposely leaves out.
package bookstore

import (
	"encoding/binary"
	"encoding/json"

	"github.com/dgraph-io/badger/v4"
	"github.com/klauspost/compress/zstd"
)

const (
	bookPrefix  = "book:"
	perftPrefix = "perft:"
)

// BookEntry is one recommended move for a position, with the weight a
// book author gave it (higher plays more often).
type BookEntry struct {
	Move   uint32 `json:"move"`
	Weight uint16 `json:"weight"`
}

// Store wraps a BadgerDB directory holding two independent key spaces:
// opening-book entries per Zobrist hash, and memoized perft counts per
// (hash, depth) pair. Values are zstd-compressed before they reach
// badger, the same way a storage layer elsewhere in this stack would
// shrink persisted payloads.
type Store struct {
	db  *badger.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open opens or creates a Store rooted at dir. The caller must Close it.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, enc: enc, dec: dec}, nil
}

// Close releases the underlying database and compression contexts.
func (s *Store) Close() error {
	s.enc.Close()
	s.dec.Close()
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func bookKey(hash uint64) []byte {
	key := make([]byte, len(bookPrefix)+8)
	copy(key, bookPrefix)
	binary.BigEndian.PutUint64(key[len(bookPrefix):], hash)
	return key
}

func perftKey(hash uint64, depth int) []byte {
	key := make([]byte, len(perftPrefix)+9)
	copy(key, perftPrefix)
	binary.BigEndian.PutUint64(key[len(perftPrefix):], hash)
	key[len(perftPrefix)+8] = byte(depth)
	return key
}

// PutBookEntries stores the candidate moves for a position, replacing
// any entries already stored under that hash.
func (s *Store) PutBookEntries(hash uint64, entries []BookEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	compressed := s.enc.EncodeAll(data, nil)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(bookKey(hash), compressed)
	})
}

// BookEntries returns the candidate moves stored for a position, or
// nil if the position isn't in the book.
func (s *Store) BookEntries(hash uint64) ([]BookEntry, error) {
	var entries []BookEntry

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(bookKey(hash))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data, err := s.dec.DecodeAll(val, nil)
			if err != nil {
				return err
			}
			return json.Unmarshal(data, &entries)
		})
	})

	return entries, err
}

// PutPerftCount memoizes a perft node count for (hash, depth), so a
// repeated perft run over the same position skips recomputation.
func (s *Store) PutPerftCount(hash uint64, depth int, nodes uint64) error {
	var data [8]byte
	binary.BigEndian.PutUint64(data[:], nodes)
	compressed := s.enc.EncodeAll(data[:], nil)

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(perftKey(hash, depth), compressed)
	})
}

// PerftCount returns a memoized perft count for (hash, depth) and
// whether it was found.
func (s *Store) PerftCount(hash uint64, depth int) (uint64, bool, error) {
	var nodes uint64
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(perftKey(hash, depth))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data, err := s.dec.DecodeAll(val, nil)
			if err != nil {
				return err
			}
			if len(data) != 8 {
				return nil
			}
			nodes = binary.BigEndian.Uint64(data)
			found = true
			return nil
		})
	})

	return nodes, found, err
}
