// ABOUTME: Embedded Badger-backed insight cache that survives restarts.
// ABOUTME: Lets the CLI reuse reports between invocations without a server.
package cache

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/harperreed/wellsync/internal/models"
	"github.com/rs/zerolog"
)

// Badger caches reports in an embedded key-value store.
type Badger struct {
	db     *badger.DB
	ttl    time.Duration
	logger zerolog.Logger
}

var _ Cache = (*Badger)(nil)

// OpenBadger opens or creates a Badger store in dir.
func OpenBadger(dir string, ttl time.Duration, logger zerolog.Logger) (*Badger, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return &Badger{db: db, ttl: ttl, logger: logger}, nil
}

func (b *Badger) Get(_ context.Context, userID string) (*models.InsightReport, bool) {
	var report models.InsightReport
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(Key(userID)))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &report)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			b.logger.Warn().Err(err).Str("user_id", userID).Msg("badger cache get failed")
		}
		return nil, false
	}
	return &report, true
}

func (b *Badger) Generation(_ context.Context, userID string) (uint64, error) {
	var gen uint64
	err := b.db.View(func(txn *badger.Txn) error {
		var err error
		gen, err = readGeneration(txn, userID)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("badger get generation: %w", err)
	}
	return gen, nil
}

// Put compares the generation inside the write transaction. A racing
// Invalidate surfaces as ErrStale.
func (b *Badger) Put(_ context.Context, userID string, gen uint64, report *models.InsightReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	err = b.db.Update(func(txn *badger.Txn) error {
		cur, err := readGeneration(txn, userID)
		if err != nil {
			return err
		}
		if cur != gen {
			return ErrStale
		}
		return txn.SetEntry(b.entry(Key(userID), data))
	})
	if errors.Is(err, badger.ErrConflict) {
		return ErrStale
	}
	return err
}

func (b *Badger) Invalidate(_ context.Context, userID string) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = b.db.Update(func(txn *badger.Txn) error {
			gen, err := readGeneration(txn, userID)
			if err != nil {
				return err
			}
			if err := txn.Delete([]byte(Key(userID))); err != nil {
				return err
			}
			buf := make([]byte, 8)
			binary.BigEndian.PutUint64(buf, gen+1)
			return txn.SetEntry(b.entry(GenerationKey(userID), buf))
		})
		if !errors.Is(err, badger.ErrConflict) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("badger invalidate: %w", err)
	}
	return nil
}

func (b *Badger) entry(key string, val []byte) *badger.Entry {
	e := badger.NewEntry([]byte(key), val)
	if b.ttl > 0 {
		e = e.WithTTL(b.ttl)
	}
	return e
}

func readGeneration(txn *badger.Txn, userID string) (uint64, error) {
	item, err := txn.Get([]byte(GenerationKey(userID)))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	var gen uint64
	err = item.Value(func(val []byte) error {
		if len(val) != 8 {
			return fmt.Errorf("generation value has %d bytes", len(val))
		}
		gen = binary.BigEndian.Uint64(val)
		return nil
	})
	return gen, err
}

func (b *Badger) Close() error {
	return b.db.Close()
}
