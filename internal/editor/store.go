package editor

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/folio-cms/folio/internal/apperror"
	"github.com/folio-cms/folio/internal/content"
	"github.com/folio-cms/folio/internal/db/controller/section"
)

var (
	// ErrSaveInFlight is returned by Save while a save of the same section is running.
	ErrSaveInFlight = apperror.Conflict("A save for this section is already in progress")

	// ErrUnknownSection is returned for ids that are not part of the working copy.
	ErrUnknownSection = apperror.NotFound("Section is not loaded in the editor")

	// ErrNotLoaded is returned when the store is used before Load.
	ErrNotLoaded = apperror.Validation("Editor has not been loaded")
)

const (
	resultOK       = "ok"
	resultError    = "error"
	resultConflict = "conflict"
)

var (
	saveCounter     *prometheus.CounterVec //nolint:gochecknoglobals
	saveCounterOnce sync.Once              //nolint:gochecknoglobals
)

func saves() *prometheus.CounterVec {
	saveCounterOnce.Do(func() {
		saveCounter = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_section_saves_total",
			Help: "Number of section saves, by result.",
		}, []string{"result"})
	})

	return saveCounter
}

// Gateway is the persistence the store reads from and writes to.
type Gateway interface {
	List(ctx context.Context, f section.Filter) ([]content.Section, error)
	UpdatePayload(ctx context.Context, id string, payload content.Document) (content.Section, error)
}

// Store is the working copy of one editing session. It is safe for concurrent use.
type Store struct {
	gw Gateway

	mu       sync.RWMutex
	loaded   bool
	pageKey  string
	sections []content.Section
	saving   map[string]bool
	version  map[string]uint64
	saved    map[string]uint64

	// generation changes on every Load and Discard. A save that started
	// under another generation does not mark the current copy as saved.
	generation uint64
}

// NewStore returns an empty store reading from gw.
func NewStore(gw Gateway) *Store {
	return &Store{
		gw:      gw,
		saving:  map[string]bool{},
		version: map[string]uint64{},
		saved:   map[string]uint64{},
	}
}

// Load replaces the working copy with the sections of pageKey, or all sections
// when pageKey is empty. Pending edits are dropped.
func (s *Store) Load(ctx context.Context, pageKey string) error {
	secs, err := s.gw.List(ctx, section.Filter{PageKey: pageKey})
	if err != nil {
		return err //nolint:wrapcheck // already an apperror
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections = secs
	s.pageKey = pageKey
	s.loaded = true
	s.version = map[string]uint64{}
	s.saved = map[string]uint64{}
	s.generation++

	return nil
}

// Loaded reports whether Load succeeded since the last Discard.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.loaded
}

// PageKey returns the page the store was loaded for.
func (s *Store) PageKey() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.pageKey
}

// Sections returns a deep copy of the working copy in order.
func (s *Store) Sections() []content.Section {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]content.Section, len(s.sections))
	for i := range s.sections {
		out[i] = s.sections[i].Clone()
	}

	return out
}

// Section returns a copy of one section of the working copy.
func (s *Store) Section(id string) (content.Section, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, err := s.indexOf(id)
	if err != nil {
		return content.Section{}, err
	}

	return s.sections[i].Clone(), nil
}

// Apply runs op against the section with id and keeps the result.
func (s *Store) Apply(id string, op content.Op) (content.Section, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, err := s.indexOf(id)
	if err != nil {
		return content.Section{}, err
	}

	next, err := content.Apply(s.sections[i], op)
	if err != nil {
		return s.sections[i].Clone(), err //nolint:wrapcheck // validation errors are shown as is
	}

	s.sections[i] = next
	s.version[id]++

	return next.Clone(), nil
}

// Save persists the payload of one section. Local edits are kept when the save fails.
func (s *Store) Save(ctx context.Context, id string) (content.Section, error) {
	s.mu.Lock()

	i, err := s.indexOf(id)
	if err != nil {
		s.mu.Unlock()

		return content.Section{}, err
	}

	if s.saving[id] {
		s.mu.Unlock()
		saves().WithLabelValues(resultConflict).Inc()

		return content.Section{}, ErrSaveInFlight
	}

	payload := s.sections[i].Payload.Clone()
	snapshot := s.version[id]
	generation := s.generation
	s.saving[id] = true
	s.mu.Unlock()

	saved, err := s.gw.UpdatePayload(ctx, id, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.saving, id)

	if err != nil {
		saves().WithLabelValues(resultError).Inc()

		if apperror.KindOf(err) == apperror.KindNotFound {
			return content.Section{}, err //nolint:wrapcheck // already an apperror
		}

		return content.Section{}, apperror.Upstream("Failed to save section", err)
	}

	saves().WithLabelValues(resultOK).Inc()

	if generation == s.generation && s.saved[id] < snapshot {
		s.saved[id] = snapshot
	}

	return saved, nil
}

// Saving reports whether a save of id is in flight.
func (s *Store) Saving(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saving[id]
}

// Dirty reports whether id has edits that were not part of a successful save.
func (s *Store) Dirty(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.version[id] != s.saved[id]
}

// Discard drops the working copy. The next Load reads from the database again.
func (s *Store) Discard() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sections = nil
	s.loaded = false
	s.version = map[string]uint64{}
	s.saved = map[string]uint64{}
	s.generation++
}

// indexOf must be called with s.mu held.
func (s *Store) indexOf(id string) (int, error) {
	if !s.loaded {
		return -1, ErrNotLoaded
	}

	for i := range s.sections {
		if s.sections[i].ID == id {
			return i, nil
		}
	}

	return -1, ErrUnknownSection
}
