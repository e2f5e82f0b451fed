package problems

import (
	"context"
	"errors"
	"log"
	"sync"

	"github.com/NAMUCU/EduFlow-sub007/internal/models"
	"golang.org/x/sync/errgroup"
)

// ErrNotFound is returned when a problem cannot be resolved, whether
// the record is missing or the backend lookup failed. Callers treat it
// as "cannot grade", never as a crash.
var ErrNotFound = errors.New("problem not found")

// Source is where problem definitions come from.
type Source interface {
	GetProblem(ctx context.Context, id string) (*models.Problem, error)
}

// Catalog resolves problem IDs through a Source and memoizes every
// lookup for its own lifetime. Construct one per grading request and
// discard it afterwards; repeated resolves of the same ID within the
// request hit the backend exactly once.
type Catalog struct {
	src     Source
	mu      sync.Mutex
	entries map[string]*catalogEntry
}

// catalogEntry memoizes one lookup. The per-entry Once means the map
// lock is never held across a backend fetch, and concurrent resolves of
// different keys proceed independently.
type catalogEntry struct {
	once    sync.Once
	problem *models.Problem
	err     error
}

func NewCatalog(src Source) *Catalog {
	return &Catalog{
		src:     src,
		entries: make(map[string]*catalogEntry),
	}
}

// Resolve fetches a problem and enriches it with its computed max
// score. Lookup failures are logged and collapsed into ErrNotFound.
func (c *Catalog) Resolve(ctx context.Context, id string) (*models.Problem, error) {
	c.mu.Lock()
	e, ok := c.entries[id]
	if !ok {
		e = &catalogEntry{}
		c.entries[id] = e
	}
	c.mu.Unlock()

	e.once.Do(func() {
		p, err := c.src.GetProblem(ctx, id)
		if err != nil {
			if !errors.Is(err, ErrNotFound) {
				log.Printf("WARN: problem lookup failed for %s: %v", id, err)
			}
			e.err = ErrNotFound
			return
		}
		p.MaxScore = models.MaxScore(p.Type, p.Difficulty)
		e.problem = p
	})

	return e.problem, e.err
}

// ResolveMany resolves all IDs concurrently. Failed lookups are simply
// omitted from the returned map; one failure does not block the others.
func (c *Catalog) ResolveMany(ctx context.Context, ids []string) map[string]*models.Problem {
	out := make(map[string]*models.Problem, len(ids))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			p, err := c.Resolve(ctx, id)
			if err != nil {
				return nil
			}
			mu.Lock()
			out[id] = p
			mu.Unlock()
			return nil
		})
	}
	g.Wait()

	return out
}
