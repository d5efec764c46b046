package storage

import (
	"bytes"
	"context"
	"fmt"

	"go.etcd.io/bbolt"
)

// SetCurrent stores the current state of log, replacing the previous
// one.
func (s *Storage) SetCurrent(ctx context.Context, log string, record []byte) error {
	err := s.update(ctx, log, func(b *bbolt.Bucket) error {
		return b.Put(keyCurrent, record)
	})
	if err != nil {
		return fmt.Errorf("set current of %s: %w", log, err)
	}
	return nil
}

// Current returns the stored current state of log, nil if none was
// stored.
func (s *Storage) Current(ctx context.Context, log string) ([]byte, error) {
	var res []byte
	err := s.view(ctx, log, func(b *bbolt.Bucket) error {
		if v := b.Get(keyCurrent); v != nil {
			res = bytes.Clone(v)
		}
		return nil
	})
	return res, err
}
