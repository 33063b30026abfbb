package ports

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/ngmaloney/passage-log/internal/models"
	"golang.org/x/text/collate"
)

// DefaultRecentLimit caps the most-recently-used list.
const DefaultRecentLimit = 20

// Store loads and saves the ports blob.
type Store interface {
	LoadPorts(ctx context.Context) (models.PortsBlob, bool, error)
	SavePorts(ctx context.Context, blob models.PortsBlob) error
}

// Directory is the session-owned catalog of known ports and the MRU list.
// It is loaded once with Load and flushed to the Store after every mutation.
// A failed flush is logged and the in-memory state stays authoritative.
type Directory struct {
	mu          sync.RWMutex
	store       Store
	logger      *slog.Logger
	recentLimit int
	collator    *collate.Collator

	all    []models.PortRecord
	recent []string
}

// DirectoryOption configures a Directory
type DirectoryOption func(*Directory)

// WithRecentLimit overrides DefaultRecentLimit
func WithRecentLimit(n int) DirectoryOption {
	return func(d *Directory) {
		if n > 0 {
			d.recentLimit = n
		}
	}
}

// WithLogger sets the logger used for storage failures
func WithLogger(logger *slog.Logger) DirectoryOption {
	return func(d *Directory) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDirectory creates an empty directory backed by store. Call Load to
// populate it from the persisted blob.
func NewDirectory(store Store, opts ...DirectoryOption) *Directory {
	d := &Directory{
		store:       store,
		logger:      slog.Default(),
		recentLimit: DefaultRecentLimit,
		collator:    newCollator(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Load replaces the in-memory state with the persisted blob. Implausible
// names left behind by older versions are dropped on the way in. A blob
// that cannot be decoded is logged and the directory starts empty.
func (d *Directory) Load(ctx context.Context) error {
	blob, found, err := d.store.LoadPorts(ctx)
	if errors.Is(err, ErrCorruptBlob) {
		d.logger.Warn("ignoring unreadable ports blob", "error", err)
		blob, found, err = models.PortsBlob{}, false, nil
	}
	if err != nil {
		return err
	}
	if blob.Dropped > 0 {
		d.logger.Warn("skipped malformed port entries", "dropped", blob.Dropped)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.all, d.recent = nil, nil
	if found {
		d.all = append(d.all, blob.All...)
		d.recent = append(d.recent, blob.Recent...)
	}
	if removed := d.cleanLocked(); removed > 0 {
		d.logger.Info("dropped implausible port names on load", "removed", removed)
	}
	d.sortLocked()
	return nil
}

// Flush writes the current state to the store.
func (d *Directory) Flush(ctx context.Context) error {
	d.mu.RLock()
	blob := d.snapshotLocked()
	d.mu.RUnlock()
	return d.store.SavePorts(ctx, blob)
}

// FindByName returns the record whose normalized name matches name.
func (d *Directory) FindByName(name string) (models.PortRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i := d.indexLocked(NormalizeName(name))
	if i < 0 {
		return models.PortRecord{}, false
	}
	return copyRecord(d.all[i]), true
}

// FindWithCoords returns the first coordinate-bearing record, in directory
// order, whose name gives the same non-empty key as name.
func (d *Directory) FindWithCoords(name string, key func(string) string) (models.PortRecord, bool) {
	want := key(name)
	if want == "" {
		return models.PortRecord{}, false
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, p := range d.all {
		if p.HasCoords() && key(p.Name) == want {
			return copyRecord(p), true
		}
	}
	return models.PortRecord{}, false
}

// ListAll returns every record in alphabetical order.
func (d *Directory) ListAll() []models.PortRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]models.PortRecord, len(d.all))
	for i, p := range d.all {
		out[i] = copyRecord(p)
	}
	return out
}

// Recent returns the MRU names, most recent first.
func (d *Directory) Recent() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]string(nil), d.recent...)
}

// Upsert inserts name, or replaces the existing record with the same
// normalized name when coords is non-nil. A coordinate-bearing record is
// never downgraded to a bare name. Blank names are ignored.
func (d *Directory) Upsert(ctx context.Context, name string, coords *models.Coordinates) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}

	d.mu.Lock()
	rec := models.PortRecord{Name: name}
	if coords != nil {
		c := *coords
		rec.Coords = &c
	}

	i := d.indexLocked(NormalizeName(name))
	switch {
	case i < 0:
		d.all = append(d.all, rec)
	case coords != nil:
		d.all[i] = rec
	}
	d.sortLocked()
	blob := d.snapshotLocked()
	d.mu.Unlock()

	d.flush(ctx, blob)
}

// Remove deletes the record for name and strips it from the MRU list.
// It reports whether a record was removed.
func (d *Directory) Remove(ctx context.Context, name string) bool {
	key := NormalizeName(name)
	if key == "" {
		return false
	}

	d.mu.Lock()
	i := d.indexLocked(key)
	if i >= 0 {
		d.all = append(d.all[:i], d.all[i+1:]...)
	}
	kept := d.recent[:0]
	for _, n := range d.recent {
		if NormalizeName(n) != key {
			kept = append(kept, n)
		}
	}
	d.recent = kept
	blob := d.snapshotLocked()
	d.mu.Unlock()

	d.flush(ctx, blob)
	return i >= 0
}

// Remember moves name to the front of the MRU list. Only names that pass
// IsPlausiblePortName and already exist in the directory are recorded.
func (d *Directory) Remember(ctx context.Context, name string) bool {
	if !IsPlausiblePortName(name) {
		return false
	}
	key := NormalizeName(name)

	d.mu.Lock()
	i := d.indexLocked(key)
	if i < 0 {
		d.mu.Unlock()
		return false
	}

	recent := []string{d.all[i].Name}
	for _, n := range d.recent {
		if NormalizeName(n) != key {
			recent = append(recent, n)
		}
	}
	if len(recent) > d.recentLimit {
		recent = recent[:d.recentLimit]
	}
	d.recent = recent
	blob := d.snapshotLocked()
	d.mu.Unlock()

	d.flush(ctx, blob)
	return true
}

// Clean drops implausible records, duplicate names and stale MRU entries,
// then flushes. It returns how many entries were removed.
func (d *Directory) Clean(ctx context.Context) (int, error) {
	d.mu.Lock()
	removed := d.cleanLocked()
	d.sortLocked()
	blob := d.snapshotLocked()
	d.mu.Unlock()

	if err := d.store.SavePorts(ctx, blob); err != nil {
		return removed, err
	}
	return removed, nil
}

func (d *Directory) flush(ctx context.Context, blob models.PortsBlob) {
	if err := d.store.SavePorts(ctx, blob); err != nil {
		d.logger.Warn("failed to persist ports", "error", err)
	}
}

func (d *Directory) cleanLocked() int {
	removed := 0

	seen := make(map[string]int, len(d.all))
	all := make([]models.PortRecord, 0, len(d.all))
	for _, p := range d.all {
		p.Name = strings.TrimSpace(p.Name)
		if !IsPlausiblePortName(p.Name) {
			removed++
			continue
		}
		key := NormalizeName(p.Name)
		if j, ok := seen[key]; ok {
			removed++
			if p.HasCoords() && !all[j].HasCoords() {
				all[j] = p
			}
			continue
		}
		seen[key] = len(all)
		all = append(all, p)
	}
	d.all = all

	recentSeen := make(map[string]bool, len(d.recent))
	recent := make([]string, 0, len(d.recent))
	for _, n := range d.recent {
		key := NormalizeName(n)
		_, known := seen[key]
		if !IsPlausiblePortName(n) || !known || recentSeen[key] {
			removed++
			continue
		}
		recentSeen[key] = true
		recent = append(recent, strings.TrimSpace(n))
	}
	if len(recent) > d.recentLimit {
		removed += len(recent) - d.recentLimit
		recent = recent[:d.recentLimit]
	}
	d.recent = recent

	return removed
}

func (d *Directory) indexLocked(key string) int {
	if key == "" {
		return -1
	}
	for i, p := range d.all {
		if NormalizeName(p.Name) == key {
			return i
		}
	}
	return -1
}

func (d *Directory) sortLocked() {
	sort.SliceStable(d.all, func(i, j int) bool {
		return d.collator.CompareString(d.all[i].Name, d.all[j].Name) < 0
	})
}

func (d *Directory) snapshotLocked() models.PortsBlob {
	blob := models.PortsBlob{
		All:    make([]models.PortRecord, len(d.all)),
		Recent: append([]string{}, d.recent...),
	}
	for i, p := range d.all {
		blob.All[i] = copyRecord(p)
	}
	return blob
}

func copyRecord(p models.PortRecord) models.PortRecord {
	if p.Coords != nil {
		c := *p.Coords
		p.Coords = &c
	}
	return p
}
