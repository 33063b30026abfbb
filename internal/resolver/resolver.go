package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ngmaloney/passage-log/internal/geocoding"
	"github.com/ngmaloney/passage-log/internal/models"
	"github.com/ngmaloney/passage-log/internal/ports"
)

// Options controls a single resolution
type Options struct {
	// Persist allows the confirmation step to write into the directory and
	// a directory hit to refresh the MRU list. Background lookups leave it off.
	Persist bool
	// Interactive turns an online match or a miss into a Pending decision
	// instead of an automatic answer.
	Interactive bool
}

// Result is either a resolved coordinate, a decision the caller must put to
// the user, or neither when nothing matched.
type Result struct {
	Coordinate *models.ResolvedCoordinate
	Pending    *Pending
}

// Found reports whether a coordinate was resolved
func (r Result) Found() bool {
	return r.Coordinate != nil
}

// Pending asks the caller for a Decision. Proposal is nil when nothing
// plausible was found online and only manual entry remains.
type Pending struct {
	Name     string
	Proposal *models.ResolvedCoordinate
	Hints    []string
	Persist  bool
}

// Resolver turns typed port names into coordinates through an ordered list
// of tiers: directory, offline gazetteer, gazetteer prefix match, online
// search.
type Resolver struct {
	ports     *ports.Service
	gazetteer *geocoding.Gazetteer
	geocoder  geocoding.Geocoder
	region    geocoding.Region
	logger    *slog.Logger
	tiers     []Tier
}

// New creates a resolver. geocoder may be nil to work offline.
func New(svc *ports.Service, gazetteer *geocoding.Gazetteer, geocoder geocoding.Geocoder, region geocoding.Region, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	if gazetteer == nil {
		gazetteer = geocoding.NewGazetteer()
	}

	r := &Resolver{
		ports:     svc,
		gazetteer: gazetteer,
		geocoder:  geocoder,
		region:    region,
		logger:    logger,
	}
	r.tiers = []Tier{
		DirectoryTier(svc.Directory()),
		GazetteerTier(gazetteer),
		GazetteerPrefixTier(gazetteer),
		r.OnlineTier(),
	}
	return r
}

// Tiers returns the tier names in resolution order
func (r *Resolver) Tiers() []string {
	names := make([]string, len(r.tiers))
	for i, t := range r.tiers {
		names[i] = t.Name
	}
	return names
}

// Resolve looks name up tier by tier and stops at the first hit. It never
// fails: geocoding errors are logged and count as no match. Persisting or
// interactive lookups of names that fail ports.IsPlausiblePortName return
// nothing, so typing fragments never reach the network or the user.
func (r *Resolver) Resolve(ctx context.Context, name string, opts Options) Result {
	name = strings.TrimSpace(name)
	if name == "" {
		return Result{}
	}
	if (opts.Persist || opts.Interactive) && !ports.IsPlausiblePortName(name) {
		r.logger.Debug("skipping fragment", "name", name)
		return Result{}
	}

	for _, tier := range r.tiers {
		hit, ok := tier.Lookup(ctx, name)
		if !ok {
			continue
		}
		r.logger.Debug("port resolved", "name", name, "tier", tier.Name, "lat", hit.Lat, "lon", hit.Lon)

		if hit.Source == SourceOnline && opts.Interactive {
			return Result{Pending: &Pending{Name: name, Proposal: &hit, Persist: opts.Persist}}
		}
		if hit.Source == SourceDirectory && opts.Persist {
			r.ports.Directory().Remember(ctx, hit.Name)
		}
		return Result{Coordinate: &hit}
	}

	if opts.Interactive && ctx.Err() == nil {
		return Result{Pending: &Pending{
			Name:    name,
			Hints:   r.gazetteer.Similar(name, 3),
			Persist: opts.Persist,
		}}
	}
	return Result{}
}

// Action is the user's answer to a Pending decision
type Action int

const (
	Decline Action = iota
	Accept
	Manual
)

func (a Action) String() string {
	switch a {
	case Accept:
		return "accept"
	case Manual:
		return "manual"
	default:
		return "decline"
	}
}

// Decision carries the chosen Action and, for Manual, the typed coordinates
type Decision struct {
	Action Action
	Lat    string
	Lon    string
}

// ErrNoProposal is returned when accepting a Pending that has no proposal
var ErrNoProposal = errors.New("nothing to accept")

// Confirm completes a Pending with the user's decision. Accepted and manual
// positions must lie inside the sanity radius; they are saved to the
// directory when the original request asked to persist and the name is
// plausible. Decline returns nil without error.
func (r *Resolver) Confirm(ctx context.Context, p Pending, d Decision) (*models.ResolvedCoordinate, error) {
	var hit models.ResolvedCoordinate

	switch d.Action {
	case Decline:
		return nil, nil
	case Accept:
		if p.Proposal == nil {
			return nil, ErrNoProposal
		}
		hit = *p.Proposal
	case Manual:
		c, err := geocoding.ParseLatLon(d.Lat, d.Lon)
		if err != nil {
			return nil, err
		}
		hit = models.ResolvedCoordinate{Name: p.Name, Lat: c.Lat, Lon: c.Lon, Source: SourceManual}
	default:
		return nil, fmt.Errorf("unknown action %d", d.Action)
	}

	pos := models.Coordinates{Lat: hit.Lat, Lon: hit.Lon}
	if err := r.region.Check(pos); err != nil {
		return nil, err
	}

	if p.Persist {
		if _, err := r.ports.Save(ctx, p.Name, &pos); err != nil {
			if !errors.Is(err, ports.ErrImplausibleName) {
				return nil, err
			}
			r.logger.Info("not saving implausible port name", "name", p.Name)
		}
	}
	return &hit, nil
}
