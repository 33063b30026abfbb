package passages

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/ports"
	"github.com/ngmaloney/passage-log/internal/resolver"
	"github.com/ngmaloney/passage-log/internal/suncalc"
)

// ErrNotFound is returned for an unknown passage ID
var ErrNotFound = errors.New("passage not found")

// Store loads and saves the passages blob
type Store interface {
	LoadPassages(ctx context.Context) ([]models.Passage, error)
	SavePassages(ctx context.Context, passages []models.Passage) error
}

// Resolver resolves port names to coordinates
type Resolver interface {
	Resolve(ctx context.Context, name string, opts resolver.Options) resolver.Result
}

// Service owns the in-memory passage list
type Service struct {
	mu       sync.Mutex
	store    Store
	resolver Resolver
	sun      *suncalc.Calculator
	clock    clockwork.Clock
	logger   *slog.Logger
	passages []models.Passage
}

// NewService creates a passage service. A nil clock uses the real clock.
func NewService(store Store, res Resolver, sun *suncalc.Calculator, clock clockwork.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if sun == nil {
		sun, _ = suncalc.NewForZone(suncalc.DefaultTimezone)
	}
	return &Service{store: store, resolver: res, sun: sun, clock: clock, logger: logger}
}

// Load reads the stored passages
func (s *Service) Load(ctx context.Context) error {
	passages, err := s.store.LoadPassages(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.passages = passages
	s.mu.Unlock()
	return nil
}

// List returns passages newest first by plan date, then creation time
func (s *Service) List() []models.Passage {
	s.mu.Lock()
	out := append([]models.Passage(nil), s.passages...)
	s.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Plan.Date != out[j].Plan.Date {
			return out[i].Plan.Date > out[j].Plan.Date
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns the passage with id. A unique ID prefix is accepted.
func (s *Service) Get(id string) (models.Passage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, err := s.indexLocked(id)
	if err != nil {
		return models.Passage{}, err
	}
	return s.passages[i], nil
}

// Create stores a new passage. The sunrise/sunset snapshot is filled in when
// the plan leaves it blank.
func (s *Service) Create(ctx context.Context, plan models.Plan) (models.Passage, error) {
	if plan.Date == "" {
		plan.Date = s.Today()
	}
	if plan.SunriseSet == "" {
		plan.SunriseSet = s.ComputeSunriseSet(ctx, plan)
	}

	now := s.clock.Now().UTC()
	p := models.Passage{
		ID:        uuid.NewString(),
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	s.passages = append(s.passages, p)
	snapshot := append([]models.Passage(nil), s.passages...)
	s.mu.Unlock()

	if err := s.store.SavePassages(ctx, snapshot); err != nil {
		return p, fmt.Errorf("saving passage: %w", err)
	}
	s.logger.Info("passage created", "id", p.ID, "title", p.Title())
	return p, nil
}

// Today returns the current date in the display timezone
func (s *Service) Today() string {
	return s.clock.Now().In(s.sun.Location()).Format("2006-01-02")
}

// UpdatePlan replaces a passage's plan
func (s *Service) UpdatePlan(ctx context.Context, id string, plan models.Plan) (models.Passage, error) {
	return s.update(ctx, id, func(p *models.Passage) {
		p.Plan = plan
	})
}

// Delete removes a passage
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	i, err := s.indexLocked(id)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.passages = append(s.passages[:i], s.passages[i+1:]...)
	snapshot := append([]models.Passage(nil), s.passages...)
	s.mu.Unlock()

	if err := s.store.SavePassages(ctx, snapshot); err != nil {
		return fmt.Errorf("saving passages: %w", err)
	}
	return nil
}

// RefreshSunriseSet recomputes the plan's sunrise/sunset snapshot from its
// current date and ports. An unresolvable plan leaves the field blank.
func (s *Service) RefreshSunriseSet(ctx context.Context, id string) (models.Passage, error) {
	current, err := s.Get(id)
	if err != nil {
		return models.Passage{}, err
	}
	value := s.ComputeSunriseSet(ctx, current.Plan)

	return s.update(ctx, current.ID, func(p *models.Passage) {
		p.Plan.SunriseSet = value
	})
}

// ComputeSunriseSet returns "sunrise / sunset" for a plan: sunrise at the
// origin, sunset at the destination when it resolves and is not "local",
// otherwise at the origin. Lookups never persist, and names still being
// typed (see ports.IsPlausiblePortName) are not looked up. It returns ""
// when the date or origin is missing or unresolvable, or the sun does not
// rise or set there that day.
func (s *Service) ComputeSunriseSet(ctx context.Context, plan models.Plan) string {
	from := strings.TrimSpace(plan.From)
	if strings.TrimSpace(plan.Date) == "" || !ports.IsPlausiblePortName(from) || s.resolver == nil {
		return ""
	}

	origin := s.resolver.Resolve(ctx, from, resolver.Options{})
	if !origin.Found() {
		s.logger.Debug("origin did not resolve", "from", from)
		return ""
	}
	dest := origin

	to := strings.TrimSpace(plan.To)
	if ports.IsPlausiblePortName(to) && !strings.EqualFold(to, "local") {
		if res := s.resolver.Resolve(ctx, to, resolver.Options{}); res.Found() {
			dest = res
		}
	}

	rise := s.sun.SunTimes(plan.Date, origin.Coordinate.Lat, origin.Coordinate.Lon)
	set := s.sun.SunTimes(plan.Date, dest.Coordinate.Lat, dest.Coordinate.Lon)
	if rise == nil || set == nil {
		return ""
	}
	return models.SunTimes{Sunrise: rise.Sunrise, Sunset: set.Sunset}.String()
}

func (s *Service) update(ctx context.Context, id string, fn func(*models.Passage)) (models.Passage, error) {
	s.mu.Lock()
	i, err := s.indexLocked(id)
	if err != nil {
		s.mu.Unlock()
		return models.Passage{}, err
	}
	fn(&s.passages[i])
	s.passages[i].UpdatedAt = s.clock.Now().UTC()
	p := s.passages[i]
	snapshot := append([]models.Passage(nil), s.passages...)
	s.mu.Unlock()

	if err := s.store.SavePassages(ctx, snapshot); err != nil {
		return p, fmt.Errorf("saving passages: %w", err)
	}
	return p, nil
}

func (s *Service) indexLocked(id string) (int, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return -1, ErrNotFound
	}
	match := -1
	for i, p := range s.passages {
		if p.ID == id {
			return i, nil
		}
		if strings.HasPrefix(p.ID, id) {
			if match >= 0 {
				return -1, fmt.Errorf("ambiguous passage id %q", id)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%q: %w", id, ErrNotFound)
	}
	return match, nil
}
