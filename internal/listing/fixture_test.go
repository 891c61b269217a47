package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

type gadget struct {
	ID           int64      `json:"gadgetid"`
	Name         string     `json:"name" validate:"required,max=40"`
	Category     string     `json:"category"`
	Qty          int64      `json:"qty"`
	AddedDate    time.Time  `json:"addeddate"`
	ModifiedDate *time.Time `json:"modifieddate,omitempty"`
}

func (g gadget) RecordID() int64 { return g.ID }

func (g gadget) FieldValue(field string) (any, bool) {
	switch field {
	case "gadgetid":
		return g.ID, true
	case "name":
		return g.Name, true
	case "category":
		return g.Category, g.Category != ""
	case "qty":
		return g.Qty, true
	case "addeddate":
		return g.AddedDate, !g.AddedDate.IsZero()
	case "modifieddate":
		if g.ModifiedDate == nil {
			return nil, false
		}
		return *g.ModifiedDate, true
	}
	return nil, false
}

var gadgetSchema = Schema[gadget]{
	Kind:            "gadgets",
	Label:           "gadget",
	Plural:          "gadgets",
	IDField:         "gadgetid",
	CreatedField:    "addeddate",
	ModifiedField:   "modifieddate",
	SearchFields:    []string{"name", "category", "qty"},
	UniqueField:     "name",
	Sortable:        []string{"gadgetid", "name", "category", "qty", "addeddate"},
	Filterable:      []string{"category", "qty"},
	DefaultOrdering: Ordering{Field: "addeddate", Direction: Descending},
	Validate: func(g gadget) error {
		if g.Qty < 0 {
			return &ValidationError{Field: "qty", Msg: "must not be negative"}
		}
		return nil
	},
}

var baseTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// seedGadgets returns n gadgets; ids 1..n, newest last, three of every ten
// are laptops.
func seedGadgets(n int) []gadget {
	out := make([]gadget, 0, n)
	for i := 1; i <= n; i++ {
		cat := "accessory"
		name := fmt.Sprintf("Widget %03d", i)
		switch i % 10 {
		case 1, 4, 7:
			cat = "computer"
			name = fmt.Sprintf("Laptop %03d", i)
		}
		out = append(out, gadget{
			ID:        int64(i),
			Name:      name,
			Category:  cat,
			Qty:       int64(i % 4),
			AddedDate: baseTime.Add(time.Duration(i) * time.Hour),
		})
	}
	return out
}

func newGadgetCollection(seed []gadget, opts ...Option) (*Collection[gadget], *MemorySource[gadget]) {
	src := NewMemorySource(gadgetSchema, seed)
	opts = append([]Option{WithClock(func() time.Time { return baseTime.Add(1000 * time.Hour) })}, opts...)
	return NewCollection[gadget](gadgetSchema, src, opts...), src
}

func names(items []gadget) []string {
	out := make([]string, len(items))
	for i, g := range items {
		out[i] = g.Name
	}
	return out
}

type countingRecorder struct {
	mu          sync.Mutex
	derivations int
	stale       int
	queries     int
	mutations   map[string]int
}

func (r *countingRecorder) QueryObserved(string, time.Duration, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queries++
}

func (r *countingRecorder) MutationObserved(_ string, op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.mutations == nil {
		r.mutations = map[string]int{}
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	r.mutations[op+":"+outcome]++
}

func (r *countingRecorder) Derivation(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.derivations++
}

func (r *countingRecorder) StaleDiscarded(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stale++
}

func (r *countingRecorder) staleCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stale
}

// flakySource fails queries while err is set.
type flakySource struct {
	*MemorySource[gadget]
	mu  sync.Mutex
	err error
}

func (f *flakySource) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *flakySource) Query(ctx context.Context, q QueryState) (Page[gadget], error) {
	f.mu.Lock()
	err := f.err
	f.mu.Unlock()
	if err != nil {
		return Page[gadget]{}, err
	}
	return f.MemorySource.Query(ctx, q)
}

// gatedSource holds any query whose search term starts with "slow" until
// gate is closed, then answers regardless of cancellation.
type gatedSource struct {
	*MemorySource[gadget]
	entered chan struct{}
	gate    chan struct{}

	mu        sync.Mutex
	cancelled bool
}

func newGatedSource(seed []gadget) *gatedSource {
	return &gatedSource{
		MemorySource: NewMemorySource(gadgetSchema, seed),
		entered:      make(chan struct{}),
		gate:         make(chan struct{}),
	}
}

func (g *gatedSource) Query(ctx context.Context, q QueryState) (Page[gadget], error) {
	if strings.HasPrefix(q.Search, "slow") {
		close(g.entered)
		<-g.gate
		if errors.Is(ctx.Err(), context.Canceled) {
			g.mu.Lock()
			g.cancelled = true
			g.mu.Unlock()
		}
		q.Search = ""
		return g.MemorySource.Query(context.Background(), q)
	}
	return g.MemorySource.Query(ctx, q)
}

func (g *gatedSource) wasCancelled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.cancelled
}
