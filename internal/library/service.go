package library

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/spinwheel/spinwheel/internal/media"
	"github.com/spinwheel/spinwheel/internal/websocket"
	"github.com/spinwheel/spinwheel/internal/wheel"
)

var (
	ErrItemNotFound = errors.New("media item not found")
	ErrEmptyUpdate  = errors.New("no fields provided for update")
)

// DefaultExtraTurns is the number of cosmetic full revolutions added to the
// landing rotation when the caller does not ask for a specific count.
const DefaultExtraTurns = 5

// Service provides media catalog operations: CRUD, filtered listing and the
// wheel spin built on top of the wheel engine.
type Service struct {
	store  *Store
	hub    *websocket.Hub
	picker *wheel.Picker
	logger zerolog.Logger
}

// NewService creates a new library service. A nil picker falls back to the
// shared random source; tests inject a seeded one.
func NewService(db *sql.DB, hub *websocket.Hub, picker *wheel.Picker, logger zerolog.Logger) *Service {
	if picker == nil {
		picker = wheel.NewPicker(nil)
	}
	return &Service{
		store:  NewStore(db),
		hub:    hub,
		picker: picker,
		logger: logger.With().Str("component", "library").Logger(),
	}
}

// ListOptions contains options for listing media items.
type ListOptions struct {
	Type            media.Type
	Tags            []string
	IncludeArchived bool
	Status          media.Status
	Search          string
}

// SpinOptions contains options for a wheel spin.
type SpinOptions struct {
	Type            media.Type
	Tags            []string
	IncludeArchived bool
	Status          media.Status
	ExtraTurns      int
}

// SpinResult is the outcome of one spin: the winner (nil when nothing was
// eligible), the candidate pool in draw order, and the precomputed wheel
// geometry for rendering the settle animation.
type SpinResult struct {
	Winner        *media.Item     `json:"winner"`
	Pool          []*media.Item   `json:"pool"`
	TotalPoolSize int             `json:"totalPoolSize"`
	WinnerIndex   int             `json:"winnerIndex"`
	Segments      []wheel.Segment `json:"segments"`
	Rotation      float64         `json:"rotation"`
}

// Statistics summarizes the catalog by status and type.
type Statistics struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Done     int64 `json:"done"`
	Archived int64 `json:"archived"`
	Games    int64 `json:"games"`
	Movies   int64 `json:"movies"`
}

// Create validates the input and adds a new item to the catalog.
func (s *Service) Create(ctx context.Context, in media.CreateInput) (*media.Item, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	item, err := s.store.Insert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("failed to create media item: %w", err)
	}

	s.logger.Info().Str("id", item.ID).Str("title", item.Title).Msg("created media item")
	s.broadcast("library:created", item)
	return item, nil
}

// Get retrieves a media item by ID.
func (s *Service) Get(ctx context.Context, id string) (*media.Item, error) {
	return s.store.Get(ctx, id)
}

// Update applies a partial update to an existing item.
func (s *Service) Update(ctx context.Context, id string, in media.UpdateInput) (*media.Item, error) {
	if in.Empty() {
		return nil, ErrEmptyUpdate
	}

	current, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := in.Validate(current.Type); err != nil {
		return nil, err
	}

	item, err := s.store.Update(ctx, id, in)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("id", item.ID).Str("title", item.Title).Msg("updated media item")
	s.broadcast("library:updated", item)
	return item, nil
}

// Delete soft-deletes a media item.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.SoftDelete(ctx, id); err != nil {
		return err
	}

	s.logger.Info().Str("id", id).Msg("deleted media item")
	s.broadcast("library:deleted", map[string]string{"id": id})
	return nil
}

// List returns the filtered catalog. Kind, tag and archived filtering run
// through the wheel engine so list and spin agree on eligibility; an
// explicit status filter and title search narrow the result further.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*media.Item, error) {
	pool, err := s.buildPool(ctx, opts.Type, opts.Tags, opts.IncludeArchived, opts.Status)
	if err != nil {
		return nil, err
	}

	if opts.Search != "" {
		needle := strings.ToLower(strings.TrimSpace(opts.Search))
		matched := pool[:0]
		for _, item := range pool {
			if strings.Contains(strings.ToLower(item.Title), needle) {
				matched = append(matched, item)
			}
		}
		pool = matched
	}

	return pool, nil
}

// Spin filters the catalog and draws one winner uniformly at random from
// the candidate pool. An empty pool yields a nil winner, not an error.
func (s *Service) Spin(ctx context.Context, opts SpinOptions) (*SpinResult, error) {
	pool, err := s.buildPool(ctx, opts.Type, opts.Tags, opts.IncludeArchived, opts.Status)
	if err != nil {
		return nil, err
	}

	extraTurns := opts.ExtraTurns
	if extraTurns < 0 {
		extraTurns = DefaultExtraTurns
	}

	result := &SpinResult{
		Pool:          pool,
		TotalPoolSize: len(pool),
		WinnerIndex:   -1,
		Segments:      wheel.Segments(len(pool)),
	}

	winner, idx, err := s.picker.Pick(pool)
	if err != nil {
		if errors.Is(err, wheel.ErrEmptyPool) {
			s.logger.Info().Msg("spin found no eligible items")
			return result, nil
		}
		return nil, err
	}

	result.Winner = winner
	result.WinnerIndex = idx
	result.Rotation = wheel.LandingRotation(idx, len(pool), extraTurns)

	s.logger.Info().
		Str("id", winner.ID).
		Str("title", winner.Title).
		Int("poolSize", len(pool)).
		Msg("spin selected winner")
	s.broadcast("wheel:spun", result)

	return result, nil
}

// Statistics returns catalog counts by status and type.
func (s *Service) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{}

	var err error
	if stats.Total, err = s.store.CountTotal(ctx); err != nil {
		return nil, err
	}
	if stats.Active, err = s.store.CountByStatus(ctx, media.StatusActive); err != nil {
		return nil, err
	}
	if stats.Done, err = s.store.CountByStatus(ctx, media.StatusDone); err != nil {
		return nil, err
	}
	if stats.Archived, err = s.store.CountByStatus(ctx, media.StatusArchived); err != nil {
		return nil, err
	}
	if stats.Games, err = s.store.CountByType(ctx, media.TypeGame); err != nil {
		return nil, err
	}
	if stats.Movies, err = s.store.CountByType(ctx, media.TypeMovie); err != nil {
		return nil, err
	}

	return stats, nil
}

// buildPool fetches the catalog snapshot and runs the wheel filter over it.
// An explicit status filter overrides the default archived exclusion, so
// asking for status=archived works without includeArchived.
func (s *Service) buildPool(ctx context.Context, kind media.Type, tags []string, includeArchived bool, status media.Status) ([]*media.Item, error) {
	if status != "" && !status.Valid() {
		return nil, media.ErrInvalidStatus
	}

	criteria := wheel.Criteria{
		Kind:            kind,
		RequiredTags:    tags,
		IncludeArchived: includeArchived || status != "",
	}

	items, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	pool, err := wheel.Filter(items, criteria)
	if err != nil {
		return nil, err
	}

	if status != "" {
		matched := pool[:0]
		for _, item := range pool {
			if item.Status == status {
				matched = append(matched, item)
			}
		}
		pool = matched
	}

	return pool, nil
}

func (s *Service) broadcast(event string, payload interface{}) {
	if s.hub == nil {
		return
	}
	if err := s.hub.Broadcast(event, payload); err != nil {
		s.logger.Warn().Err(err).Str("event", event).Msg("failed to broadcast event")
	}
}
