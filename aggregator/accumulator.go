package aggregator

import (
	"maps"
	"sync"

	"github.com/MrLipa/oasaggregate/document"
)

// CollisionKind names the level at which two sources overlapped.
type CollisionKind string

const (
	// CollisionPath is a (path, key) pair defined by two sources.
	CollisionPath CollisionKind = "path"
	// CollisionComponent is a (category, name) pair defined by two sources.
	CollisionComponent CollisionKind = "component"
)

// Collision records one overlapping key met during a fold.
type Collision struct {
	Kind CollisionKind
	// Parent is the path or the component category.
	Parent string
	// Key is the path item key (usually an HTTP method) or the component name.
	Key string
}

// Accumulator exclusively owns the aggregate document of one run.
// Fold is the only way to grow it, and folds are serialized, so an
// Accumulator may be shared by goroutines that fetch in parallel.
type Accumulator struct {
	mu       sync.Mutex
	doc      *document.Aggregate
	strategy CollisionStrategy
}

// NewAccumulator returns an accumulator holding an empty aggregate with the
// given header. An empty strategy means StrategyAcceptRight (last-wins).
func NewAccumulator(info document.Info, strategy CollisionStrategy) *Accumulator {
	if strategy == "" {
		strategy = StrategyAcceptRight
	}
	return &Accumulator{
		doc:      document.NewAggregate(info),
		strategy: strategy,
	}
}

// Document returns the aggregate. Callers must not fold concurrently with
// reading it.
func (a *Accumulator) Document() *document.Aggregate {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.doc
}

// Fold adds one fetched source to the aggregate:
//
//  1. server: appended unless a server with the same URL is listed
//  2. paths: a new path is inserted; for an existing path each incoming
//     key is written over the same key, other keys are kept
//  3. components: a new category is inserted; for an existing category
//     each incoming name is written over the same name, others are kept
//
// With StrategyAcceptLeft the write in steps 2 and 3 is skipped for keys
// that already exist. Fold returns the overlapping keys it met.
func (a *Accumulator) Fold(server document.Server, src *document.Source) []Collision {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.doc.HasServer(server.URL) {
		a.doc.Servers = append(a.doc.Servers, server)
	}

	var collisions []Collision
	collisions = a.foldPaths(src.Paths, collisions)
	collisions = a.foldComponents(src.Components, collisions)
	return collisions
}

func (a *Accumulator) foldPaths(paths map[string]document.PathItem, collisions []Collision) []Collision {
	for path, incoming := range paths {
		existing, ok := a.doc.Paths[path]
		if !ok {
			a.doc.Paths[path] = cloneOrEmpty(incoming)
			continue
		}
		for key, value := range incoming {
			if _, dup := existing[key]; dup {
				collisions = append(collisions, Collision{Kind: CollisionPath, Parent: path, Key: key})
				if a.strategy == StrategyAcceptLeft {
					continue
				}
			}
			existing[key] = value
		}
	}
	return collisions
}

func (a *Accumulator) foldComponents(components document.Components, collisions []Collision) []Collision {
	for category, incoming := range components {
		existing, ok := a.doc.Components[category]
		if !ok {
			a.doc.Components[category] = cloneOrEmpty(incoming)
			continue
		}
		for name, def := range incoming {
			if _, dup := existing[name]; dup {
				collisions = append(collisions, Collision{Kind: CollisionComponent, Parent: category, Key: name})
				if a.strategy == StrategyAcceptLeft {
					continue
				}
			}
			existing[name] = def
		}
	}
	return collisions
}

// cloneOrEmpty copies the top level of m so later folds never write into a
// source's own map.
func cloneOrEmpty[M ~map[string]any](m M) M {
	if m == nil {
		return make(M)
	}
	return maps.Clone(m)
}
