// Package savedfilters keeps named filter presets in a single versioned
// JSON blob.
package savedfilters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smartworkmark/seo-content-portal/internal/model"
	"github.com/smartworkmark/seo-content-portal/internal/storage"
)

// StorageKey is the blob key the presets live under.
const StorageKey = "content-portal-saved-filters"

// CurrentVersion is the schema version written by this package.
const CurrentVersion = 1

const createdAtLayout = "2006-01-02T15:04:05.000Z"

// Validation and lookup errors.
var (
	ErrEmptyName          = errors.New("please enter a name")
	ErrNotFound           = errors.New("saved filter not found")
	ErrInvalidContentType = errors.New("invalid content type")
	ErrInvalidDateRange   = errors.New("invalid date range")
)

// BlobStore reads and writes opaque values by key.
type BlobStore interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, value []byte) error
}

// NewFilter is the input to Save.
type NewFilter struct {
	Name        string            `json:"name"`
	ContentType model.ContentKind `json:"contentType"`
	Practices   []string          `json:"practices"`
	DateRange   model.DateRange   `json:"dateRange"`
}

// Patch lists the fields Update may change. Nil fields are left alone.
type Patch struct {
	Name        *string            `json:"name,omitempty"`
	ContentType *model.ContentKind `json:"contentType,omitempty"`
	Practices   *[]string          `json:"practices,omitempty"`
	DateRange   *model.DateRange   `json:"dateRange,omitempty"`
}

// Store loads, mutates and rewrites the whole preset collection on every
// change. Concurrent writers in other processes race; the last one wins.
type Store struct {
	mu     sync.Mutex
	blobs  BlobStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// New creates a Store over blobs.
func New(blobs BlobStore, logger *slog.Logger) *Store {
	return &Store{
		blobs:  blobs,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// Load returns the persisted collection, upgraded to CurrentVersion. It
// never fails: a missing, unreadable or malformed blob yields an empty
// collection. An upgraded collection is written back.
func (s *Store) Load(ctx context.Context) model.SavedFiltersStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// List returns every saved filter in creation order.
func (s *Store) List(ctx context.Context) []model.SavedFilter {
	return s.Load(ctx).Filters
}

// ListForContentType returns the saved filters of one content tab.
func (s *Store) ListForContentType(ctx context.Context, kind model.ContentKind) []model.SavedFilter {
	out := []model.SavedFilter{}
	for _, f := range s.List(ctx) {
		if f.ContentType == kind {
			out = append(out, f)
		}
	}
	return out
}

// Save validates nf, appends it with a new ID and timestamp, and persists.
func (s *Store) Save(ctx context.Context, nf NewFilter) (model.SavedFilter, error) {
	name := strings.TrimSpace(nf.Name)
	if name == "" {
		return model.SavedFilter{}, ErrEmptyName
	}
	if !nf.ContentType.Valid() {
		return model.SavedFilter{}, fmt.Errorf("%w: %q", ErrInvalidContentType, nf.ContentType)
	}
	if !nf.DateRange.Valid() {
		return model.SavedFilter{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, nf.DateRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	f := model.SavedFilter{
		ID:          s.newID(),
		Name:        name,
		ContentType: nf.ContentType,
		Practices:   clonePractices(nf.Practices),
		DateRange:   nf.DateRange,
		CreatedAt:   s.now().UTC().Format(createdAtLayout),
	}
	st.Filters = append(st.Filters, f)
	s.persist(ctx, st)
	return f, nil
}

// Delete removes the filter with id and persists.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	n := len(st.Filters)
	st.Filters = slices.DeleteFunc(st.Filters, func(f model.SavedFilter) bool { return f.ID == id })
	if len(st.Filters) == n {
		return fmt.Errorf("delete %q: %w", id, ErrNotFound)
	}
	s.persist(ctx, st)
	return nil
}

// Update applies p to the filter with id and persists. ID and CreatedAt
// never change.
func (s *Store) Update(ctx context.Context, id string, p Patch) (model.SavedFilter, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return model.SavedFilter{}, ErrEmptyName
	}
	if p.ContentType != nil && !p.ContentType.Valid() {
		return model.SavedFilter{}, fmt.Errorf("%w: %q", ErrInvalidContentType, *p.ContentType)
	}
	if p.DateRange != nil && !p.DateRange.Valid() {
		return model.SavedFilter{}, fmt.Errorf("%w: %q", ErrInvalidDateRange, *p.DateRange)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.load(ctx)
	i := slices.IndexFunc(st.Filters, func(f model.SavedFilter) bool { return f.ID == id })
	if i < 0 {
		return model.SavedFilter{}, fmt.Errorf("update %q: %w", id, ErrNotFound)
	}

	f := &st.Filters[i]
	if p.Name != nil {
		f.Name = strings.TrimSpace(*p.Name)
	}
	if p.ContentType != nil {
		f.ContentType = *p.ContentType
	}
	if p.Practices != nil {
		f.Practices = clonePractices(*p.Practices)
	}
	if p.DateRange != nil {
		f.DateRange = *p.DateRange
	}
	s.persist(ctx, st)
	return *f, nil
}

func (s *Store) load(ctx context.Context) model.SavedFiltersStore {
	data, err := s.blobs.GetBlob(ctx, StorageKey)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("read saved filters, starting empty", "error", err)
		}
		return emptyStore()
	}

	st, err := decode(data)
	if err != nil {
		s.logger.Warn("malformed saved filters, starting empty", "error", err)
		return emptyStore()
	}

	if migrate(&st) {
		s.logger.Info("saved filters migrated", "version", st.Version)
		s.persist(ctx, st)
	}
	return st
}

// persist writes st. Failures are logged; the caller's change stands in memory.
func (s *Store) persist(ctx context.Context, st model.SavedFiltersStore) {
	data, err := json.Marshal(st)
	if err != nil {
		s.logger.Error("encode saved filters", "error", err)
		return
	}
	if err := s.blobs.PutBlob(ctx, StorageKey, data); err != nil {
		s.logger.Error("write saved filters", "error", err)
	}
}

func emptyStore() model.SavedFiltersStore {
	return model.SavedFiltersStore{Version: CurrentVersion, Filters: []model.SavedFilter{}}
}

// decode accepts only {"version": number, "filters": [...]}.
func decode(data []byte) (model.SavedFiltersStore, error) {
	var raw struct {
		Version *float64             `json:"version"`
		Filters *[]model.SavedFilter `json:"filters"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return model.SavedFiltersStore{}, fmt.Errorf("decode saved filters: %w", err)
	}
	if raw.Version == nil {
		return model.SavedFiltersStore{}, errors.New("decode saved filters: version missing")
	}
	if raw.Filters == nil {
		return model.SavedFiltersStore{}, errors.New("decode saved filters: filters missing")
	}

	st := model.SavedFiltersStore{Version: int(*raw.Version), Filters: *raw.Filters}
	for i := range st.Filters {
		if st.Filters[i].Practices == nil {
			st.Filters[i].Practices = []string{}
		}
	}
	return st, nil
}

func clonePractices(p []string) []string {
	if p == nil {
		return []string{}
	}
	return slices.Clone(p)
}
