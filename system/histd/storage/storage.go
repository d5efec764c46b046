package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.etcd.io/bbolt"
)

var (
	bucketRecords = []byte("records")
	keyCurrent    = []byte("current")
)

var ErrNoLog = errors.New("no such log")

type Storage struct {
	db     *bbolt.DB
	logger *slog.Logger
}

// Open opens or creates the database at path.
func Open(path string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := bbolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	logger.Debug("opened storage", "path", path)
	return &Storage{db: db, logger: logger}, nil
}

func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Logs returns the names of the stored logs in order.
func (s *Storage) Logs(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var res []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.ForEach(func(name []byte, _ *bbolt.Bucket) error {
			res = append(res, string(name))
			return nil
		})
	})
	return res, err
}

func (s *Storage) update(ctx context.Context, log string, f func(b *bbolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(log))
		if err != nil {
			return fmt.Errorf("log %s: %w", log, err)
		}
		if _, err := b.CreateBucketIfNotExists(bucketRecords); err != nil {
			return fmt.Errorf("log %s: %w", log, err)
		}
		return f(b)
	})
}

func (s *Storage) view(ctx context.Context, log string, f func(b *bbolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(log))
		if b == nil {
			return fmt.Errorf("%w: %s", ErrNoLog, log)
		}
		return f(b)
	})
}

// Reset removes log and all its records.  Sequence numbers of the log
// start over.
func (s *Storage) Reset(ctx context.Context, log string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		err := tx.DeleteBucket([]byte(log))
		if errors.Is(err, bbolt.ErrBucketNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("reset %s: %w", log, err)
	}
	s.logger.Debug("reset log", "log", log)
	return nil
}
