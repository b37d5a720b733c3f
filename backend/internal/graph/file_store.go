package graph

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"jobgraph/backend/pkg/errors"
	"jobgraph/backend/pkg/logger"
)

// lockRetryInterval is how often an in-flight file lock is re-checked while
// waiting for another process to release it.
const lockRetryInterval = 25 * time.Millisecond

// FileStore keeps every user's graph in memory and mirrors the whole store
// to a single JSON document on disk. The snapshot is loaded lazily on first
// access; every mutation rewrites it with a write-to-temp-then-rename so a
// reader never sees a half-written file.
//
// Concurrency: an in-process reader-writer lock serializes mutate+persist
// against reads, and a sibling lock file guards the snapshot against other
// processes. Lock-file acquisition waits a bounded time and then fails with
// a persistence error.
type FileStore struct {
	path        string
	lockTimeout time.Duration
	logger      *zap.Logger

	mu     sync.RWMutex
	users  map[string]*userGraph
	loaded bool
}

// userGraph is the mutable in-memory form of one user's graph, with lookup
// indexes alongside the ordered slices the snapshot serializes.
type userGraph struct {
	entities  []*Entity
	byName    map[string]*Entity // key: lowercased name
	relations []Relation
	relSet    map[string]struct{} // key: Relation.Key()
}

func newUserGraph() *userGraph {
	return &userGraph{
		byName: make(map[string]*Entity),
		relSet: make(map[string]struct{}),
	}
}

// NewFileStore creates a store backed by the JSON document at path. The
// file does not need to exist yet; the parent directory is created on the
// first write.
func NewFileStore(path string, lockTimeout time.Duration) *FileStore {
	return &FileStore{
		path:        path,
		lockTimeout: lockTimeout,
		logger:      logger.Named("graph.file"),
		users:       make(map[string]*userGraph),
	}
}

// Close implements Store. The file store holds no open handles between
// operations, so there is nothing to release.
func (s *FileStore) Close() error {
	return nil
}

// ============================================================================
// Snapshot load / save
// ============================================================================

// persistedGraph is the wire form of one user's graph in the snapshot file
type persistedGraph struct {
	Entities  []*Entity  `json:"entities"`
	Relations []Relation `json:"relations"`
}

// ensureLoaded loads the snapshot on first access. Callers must not hold
// the store lock.
func (s *FileStore) ensureLoaded() {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return
	}
	s.loadLocked()
	s.loaded = true
}

// loadLocked reads the snapshot file into memory. A missing file is a fresh
// store; an unreadable or corrupt file is logged and recovered as an empty
// store rather than crashing the process.
func (s *FileStore) loadLocked() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("Snapshot unreadable, starting with empty store",
				zap.String("path", s.path),
				zap.Error(err),
			)
		}
		return
	}

	var snapshot map[string]persistedGraph
	if err := json.Unmarshal(data, &snapshot); err != nil {
		s.logger.Warn("Snapshot corrupt, starting with empty store",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return
	}

	for userID, pg := range snapshot {
		g := newUserGraph()
		for _, e := range pg.Entities {
			if e == nil || e.Name == "" {
				continue
			}
			key := strings.ToLower(e.Name)
			if _, exists := g.byName[key]; exists {
				continue
			}
			if e.Type == "" {
				e.Type = EntityTypeUnknown
			}
			g.entities = append(g.entities, e)
			g.byName[key] = e
		}
		for _, r := range pg.Relations {
			// Relations whose endpoints vanished are dropped on load, so the
			// endpoint invariant holds for everything we serve.
			if _, ok := g.byName[strings.ToLower(r.From)]; !ok {
				s.logger.Warn("Dropping relation with missing endpoint",
					zap.String("user_id", userID),
					zap.String("from", r.From),
					zap.String("to", r.To),
				)
				continue
			}
			if _, ok := g.byName[strings.ToLower(r.To)]; !ok {
				s.logger.Warn("Dropping relation with missing endpoint",
					zap.String("user_id", userID),
					zap.String("from", r.From),
					zap.String("to", r.To),
				)
				continue
			}
			if _, dup := g.relSet[r.Key()]; dup {
				continue
			}
			g.relations = append(g.relations, r)
			g.relSet[r.Key()] = struct{}{}
		}
		s.users[userID] = g
	}

	s.logger.Info("Knowledge graph loaded",
		zap.String("path", s.path),
		zap.Int("users", len(s.users)),
	)
}

// persistLocked serializes the whole store and atomically replaces the
// snapshot file. Callers hold the write lock.
func (s *FileStore) persistLocked() error {
	snapshot := make(map[string]persistedGraph, len(s.users))
	for userID, g := range s.users {
		snapshot[userID] = persistedGraph{
			Entities:  g.entities,
			Relations: g.relations,
		}
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return errors.NewSnapshotSave(s.path, err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errors.NewSnapshotSave(s.path, err)
	}

	release, err := s.acquireFileLock()
	if err != nil {
		return err
	}
	defer release()

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".knowledge_graph-*.tmp")
	if err != nil {
		return errors.NewSnapshotSave(s.path, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewSnapshotSave(s.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewSnapshotSave(s.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewSnapshotSave(s.path, err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.NewSnapshotSave(s.path, err)
	}

	return nil
}

// acquireFileLock takes the cross-process lock file next to the snapshot,
// retrying until lockTimeout elapses. The returned func releases the lock.
func (s *FileStore) acquireFileLock() (func(), error) {
	lockPath := s.path + ".lock"
	deadline := time.Now().Add(s.lockTimeout)

	for {
		f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			f.Close()
			return func() { os.Remove(lockPath) }, nil
		}
		if !os.IsExist(err) {
			return nil, errors.NewSnapshotSave(s.path, err)
		}
		if time.Now().After(deadline) {
			s.logger.Error("Backing file locked by another process",
				zap.String("lock_path", lockPath),
				zap.Duration("timeout", s.lockTimeout),
			)
			return nil, errors.NewLockTimeout(s.path, s.lockTimeout)
		}
		time.Sleep(lockRetryInterval)
	}
}

// ============================================================================
// Shared graph helpers
// ============================================================================

// graphFor returns the user's graph, creating it when create is set.
// Callers hold the appropriate lock.
func (s *FileStore) graphFor(userID string, create bool) *userGraph {
	g, ok := s.users[userID]
	if !ok && create {
		g = newUserGraph()
		s.users[userID] = g
	}
	return g
}

// upsertLocked creates or returns the entity. The existing type wins; the
// casing of the first mention becomes the canonical name.
func (g *userGraph) upsertLocked(name, entityType string) *Entity {
	key := strings.ToLower(name)
	if e, ok := g.byName[key]; ok {
		return e
	}
	if entityType == "" {
		entityType = EntityTypeUnknown
	}
	e := &Entity{
		Name:         name,
		Type:         entityType,
		Observations: []string{},
	}
	g.entities = append(g.entities, e)
	g.byName[key] = e
	return e
}

func validateUserID(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return errors.NewValidation("user_id", "must not be empty")
	}
	return nil
}

func validateEntityName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.NewValidation("name", "must not be empty")
	}
	return nil
}
