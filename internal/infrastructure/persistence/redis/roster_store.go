package redis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/nilai-hub/student-grades/internal/domain/shared"
	"github.com/nilai-hub/student-grades/internal/domain/student"
	"github.com/nilai-hub/student-grades/pkg/logger"
)

// Compile-time check.
var _ student.Store = (*RosterStore)(nil)

// RosterStore implements student.Store with one SET/GET of a JSON array.
type RosterStore struct {
	cache *Cache
	key   string
	log   *logger.Logger
}

// NewRosterStore stores the roster under key.
func NewRosterStore(cache *Cache, key string, log *logger.Logger) *RosterStore {
	if log == nil {
		log = logger.Nop()
	}
	if key == "" {
		key = DefaultConfig().Key
	}
	return &RosterStore{
		cache: cache,
		key:   key,
		log:   log.With(logger.Backend("redis"), logger.F("key", key)),
	}
}

// Load reads the document. A missing key or a non-array value is an empty roster.
func (s *RosterStore) Load(ctx context.Context) ([]student.Snapshot, error) {
	start := time.Now()

	data, err := s.cache.GetBytes(ctx, s.key)
	if errors.Is(err, ErrCacheMiss) {
		s.log.Info("roster key missing, starting empty")
		return []student.Snapshot{}, nil
	}
	if err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "read roster from redis", err)
	}

	if !json.Valid(data) {
		return nil, shared.NewDomainError("storage", "Load", shared.ErrStorage, "stored roster is not valid JSON")
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.log.Warn("stored roster is not an array, treating as empty")
		return []student.Snapshot{}, nil
	}

	var snapshots []student.Snapshot
	if err := json.Unmarshal(trimmed, &snapshots); err != nil {
		return nil, shared.WrapError("storage", "Load", shared.ErrStorage, "decode students", err)
	}
	if snapshots == nil {
		snapshots = []student.Snapshot{}
	}

	s.log.Debug("roster read", logger.Count("students", len(snapshots)), logger.Latency(time.Since(start)))
	return snapshots, nil
}

// Save overwrites the document with snapshots.
func (s *RosterStore) Save(ctx context.Context, snapshots []student.Snapshot) error {
	if snapshots == nil {
		snapshots = []student.Snapshot{}
	}

	data, err := json.Marshal(snapshots)
	if err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "encode students", err)
	}

	start := time.Now()
	if err := s.cache.SetBytes(ctx, s.key, data); err != nil {
		return shared.WrapError("storage", "Save", shared.ErrStorage, "write roster to redis", err)
	}

	s.log.Debug("roster written", logger.Count("students", len(snapshots)), logger.Latency(time.Since(start)))
	return nil
}

// Close closes the client.
func (s *RosterStore) Close() error {
	return s.cache.Close()
}
