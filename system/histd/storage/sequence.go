package storage

import (
	"context"
	"encoding/binary"
	"fmt"

	"go.etcd.io/bbolt"
)

func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// Append adds record at the end of log, creating the log if needed, and
// returns its sequence number.
func (s *Storage) Append(ctx context.Context, log string, record []byte) (uint64, error) {
	var seq uint64
	err := s.update(ctx, log, func(b *bbolt.Bucket) error {
		rb := b.Bucket(bucketRecords)
		var err error
		seq, err = rb.NextSequence()
		if err != nil {
			return err
		}
		return rb.Put(seqKey(seq), record)
	})
	if err != nil {
		return 0, fmt.Errorf("append to %s: %w", log, err)
	}
	return seq, nil
}

// Scan calls fn on the records of log in sequence order.  Records passed
// to fn are only valid during the call.  Scan stops at the first error
// of fn and returns it.
func (s *Storage) Scan(ctx context.Context, log string, fn func(seq uint64, record []byte) error) error {
	return s.view(ctx, log, func(b *bbolt.Bucket) error {
		c := b.Bucket(bucketRecords).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			if len(k) != 8 {
				s.logger.Warn("skipping invalid record key", "log", log, "key", k)
				continue
			}
			if err := fn(binary.BigEndian.Uint64(k), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Len returns the number of records in log.
func (s *Storage) Len(ctx context.Context, log string) (int, error) {
	var n int
	err := s.view(ctx, log, func(b *bbolt.Bucket) error {
		n = b.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return n, err
}

// Commit appends record to log and stores current as its current state
// in one transaction.
func (s *Storage) Commit(ctx context.Context, log string, record, current []byte) (uint64, error) {
	var seq uint64
	err := s.update(ctx, log, func(b *bbolt.Bucket) error {
		rb := b.Bucket(bucketRecords)
		var err error
		seq, err = rb.NextSequence()
		if err != nil {
			return err
		}
		if err := rb.Put(seqKey(seq), record); err != nil {
			return err
		}
		return b.Put(keyCurrent, current)
	})
	if err != nil {
		return 0, fmt.Errorf("commit to %s: %w", log, err)
	}
	return seq, nil
}
