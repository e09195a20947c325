package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalambet/devo/internal/devotional"
)

// ErrNotFound is returned by Load when no artifact exists under an id.
var ErrNotFound = errors.New("artifact not found")

// stored is satisfied by both artifact kinds.
type stored interface {
	ArtifactID() string
	Validate() error
}

// Store persists one artifact kind as JSON, one file per artifact, named
// by id under a root directory. Serialization is byte-deterministic for
// identical logical content, so repeated saves of the same map produce
// identical files. Overwrite-on-save is the only update path.
type Store[T stored] struct {
	root string
}

// NewStore creates the root directory if absent.
func NewStore[T stored](root string) (*Store[T], error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating artifact root %s: %w", root, err)
	}
	return &Store[T]{root: root}, nil
}

func (s *Store[T]) path(id string) string {
	return filepath.Join(s.root, id+".json")
}

// Save validates and persists the artifact, overwriting any existing file
// for the same id.
func (s *Store[T]) Save(a T) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid artifact %s: %w", a.ArtifactID(), err)
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("serializing artifact %s: %w", a.ArtifactID(), err)
	}
	if err := os.WriteFile(s.path(a.ArtifactID()), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing artifact %s: %w", a.ArtifactID(), err)
	}
	return nil
}

// Load reads and structurally validates an artifact. A missing file is
// reported via ErrNotFound; corrupt bytes or schema violations are
// ordinary errors.
func (s *Store[T]) Load(id string) (T, error) {
	var a T
	data, err := os.ReadFile(s.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return a, fmt.Errorf("id %q: %w", id, ErrNotFound)
		}
		return a, fmt.Errorf("reading artifact %s: %w", id, err)
	}
	if err := json.Unmarshal(data, &a); err != nil {
		return a, fmt.Errorf("decoding artifact %s: %w", id, err)
	}
	if err := a.Validate(); err != nil {
		return a, fmt.Errorf("stored artifact %s is invalid: %w", id, err)
	}
	return a, nil
}

// Exists is a cheap existence probe.
func (s *Store[T]) Exists(id string) bool {
	_, err := os.Stat(s.path(id))
	return err == nil
}

// GroundingStore persists GroundingMap artifacts.
type GroundingStore = Store[GroundingMap]

// TraceStore persists PrayerTraceMap artifacts.
type TraceStore = Store[PrayerTraceMap]

// NewGroundingStore opens a grounding map store rooted at dir.
func NewGroundingStore(dir string) (*GroundingStore, error) {
	return NewStore[GroundingMap](dir)
}

// NewTraceStore opens a prayer trace map store rooted at dir.
func NewTraceStore(dir string) (*TraceStore, error) {
	return NewStore[PrayerTraceMap](dir)
}

// ResolveGroundingMap loads the grounding map referenced by an exposition
// section. An empty id means nothing was ever grounded: returns nil with
// no error. A non-empty id is a promise that must be honored — if the
// store has nothing under it, the not-found error propagates rather than
// silently skipping.
func ResolveGroundingMap(sec devotional.Exposition, store *GroundingStore) (*GroundingMap, error) {
	if sec.GroundingMapID == "" {
		return nil, nil
	}
	m, err := store.Load(sec.GroundingMapID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ResolvePrayerTraceMap is the prayer analogue of ResolveGroundingMap.
func ResolvePrayerTraceMap(sec devotional.Prayer, store *TraceStore) (*PrayerTraceMap, error) {
	if sec.PrayerTraceMapID == "" {
		return nil, nil
	}
	m, err := store.Load(sec.PrayerTraceMapID)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
