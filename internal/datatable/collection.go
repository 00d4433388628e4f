/*
 * Collection - remote-backed paginated, sortable and searchable list.
 *
 * Copyright 2026 Marco Confalonieri.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *   http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package datatable

import (
	"context"
	"net/url"
	"sync"

	"sihealth-console/internal/metrics"

	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=collection.go -destination=mock_getter_test.go -package=datatable

// Getter performs a GET request against an endpoint relative to the backend
// base URL and returns the body of a successful response.
type Getter interface {
	Get(ctx context.Context, endpoint string, query url.Values) ([]byte, error)
}

// State is the observable result of a collection. It is replaced as a whole
// each time a fetch settles.
type State[T any] struct {
	Items   []T
	Total   int
	Loading bool
	// Err is the error of the last applied fetch, nil on success.
	Err error
}

// Collection owns a remote list: it turns its view parameters into a query,
// fetches and normalizes the response and publishes the result.
type Collection[T any] struct {
	getter   Getter
	endpoint string

	mu            sync.Mutex
	options       Options
	paramsEnabled bool
	state         State[T]
	// issued is the sequence number of the latest fetch.
	issued  uint64
	version uint64

	watchers  map[int]func(Options)
	observers map[int]func(State[T])
	nextID    int

	notifyMu  sync.Mutex
	delivered uint64

	inFlight sync.WaitGroup
}

// New creates a collection for the given endpoint. If initial sets any field,
// query parameters are enabled from the start and the options are the
// defaults overridden by initial. Otherwise the endpoint is called without
// query parameters until UpdateOptions is called.
func New[T any](getter Getter, endpoint string, initial Patch) *Collection[T] {
	c := &Collection[T]{
		getter:    getter,
		endpoint:  endpoint,
		state:     State[T]{Items: []T{}},
		watchers:  map[int]func(Options){},
		observers: map[int]func(State[T]){},
	}
	if !initial.IsEmpty() {
		c.options = initial.applyTo(DefaultOptions())
		c.paramsEnabled = true
	}
	return c
}

// Endpoint returns the endpoint the collection reads from.
func (c *Collection[T]) Endpoint() string {
	return c.endpoint
}

// Options returns a copy of the current view parameters.
func (c *Collection[T]) Options() Options {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.options.clone()
}

// ParamsEnabled returns true once query parameters are sent with requests.
func (c *Collection[T]) ParamsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paramsEnabled
}

// State returns the current state.
func (c *Collection[T]) State() State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe registers an observer called with every new state. Calls are
// serialized and never deliver an older state after a newer one. The
// returned function removes the observer.
func (c *Collection[T]) Subscribe(fn func(State[T])) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.observers, id)
		c.mu.Unlock()
	}
}

// WatchOptions registers a function called each time UpdateOptions changes
// the view parameters. The returned function removes the watcher.
func (c *Collection[T]) WatchOptions(fn func(Options)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.watchers[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.watchers, id)
		c.mu.Unlock()
	}
}

// Attach binds the collection to its owner: every change of the view
// parameters triggers a fetch, and an initial fetch is started right away.
// The binding is removed when ctx is done.
func (c *Collection[T]) Attach(ctx context.Context) {
	unwatch := c.WatchOptions(func(Options) {
		c.spawnFetch(ctx)
	})
	context.AfterFunc(ctx, unwatch)
	c.spawnFetch(ctx)
}

// Wait blocks until all the fetches started by the binding have settled.
func (c *Collection[T]) Wait() {
	c.inFlight.Wait()
}

// spawnFetch runs FetchItems in its own goroutine.
func (c *Collection[T]) spawnFetch(ctx context.Context) {
	c.inFlight.Add(1)
	go func() {
		defer c.inFlight.Done()
		c.FetchItems(ctx)
	}()
}

// UpdateOptions merges a partial set of view parameters. The first call
// replaces the whole set with the defaults overridden by the patch and
// enables query parameters for good. Watchers are notified only if something
// actually changed.
func (c *Collection[T]) UpdateOptions(patch Patch) {
	c.mu.Lock()
	var next Options
	enabling := !c.paramsEnabled
	if enabling {
		next = patch.applyTo(DefaultOptions())
	} else {
		next = patch.applyTo(c.options)
	}
	changed := enabling || !next.equal(c.options)
	c.options = next
	c.paramsEnabled = true
	watchers := make([]func(Options), 0, len(c.watchers))
	for _, w := range c.watchers {
		watchers = append(watchers, w)
	}
	c.mu.Unlock()

	if !changed {
		return
	}
	for _, w := range watchers {
		w(next.clone())
	}
}

// query returns the query parameters for the next request, nil when they
// are disabled. Must be called with the lock held.
func (c *Collection[T]) query() url.Values {
	if !c.paramsEnabled {
		return nil
	}
	return c.options.Values()
}

// FetchItems loads the current page. Failures are logged and published as
// an empty result with State.Err set; nothing is returned to the caller.
// When fetches overlap, only the result of the most recently issued one is
// applied.
func (c *Collection[T]) FetchItems(ctx context.Context) {
	c.mu.Lock()
	c.issued++
	seq := c.issued
	query := c.query()
	c.state.Loading = true
	c.version++
	c.mu.Unlock()
	c.publish()

	page := emptyPage[T]()
	var err error
	defer func() {
		c.settle(seq, page, err)
	}()

	var body []byte
	body, err = c.getter.Get(ctx, c.endpoint, query)
	if err != nil {
		log.Errorf("Error fetching %s: %v", c.endpoint, err)
		return
	}
	page, err = Normalize[T](body)
	if err != nil {
		log.Errorf("Error reading %s: %v", c.endpoint, err)
	}
}

// settle applies the result of fetch number seq if no newer fetch was issued
// in the meantime.
func (c *Collection[T]) settle(seq uint64, page Page[T], err error) {
	c.mu.Lock()
	if seq != c.issued {
		c.mu.Unlock()
		log.Debugf("Discarding stale response #%d for %s", seq, c.endpoint)
		metrics.GetOpenMetricsInstance().IncDiscardedResponsesTotal(c.endpoint)
		return
	}
	c.state = State[T]{
		Items:   page.Items,
		Total:   page.Total,
		Loading: false,
		Err:     err,
	}
	c.version++
	c.mu.Unlock()
	c.publish()
}

// publish delivers the current state to the observers, skipping versions
// that were already delivered.
func (c *Collection[T]) publish() {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	version := c.version
	state := c.state
	observers := make([]func(State[T]), 0, len(c.observers))
	for _, o := range c.observers {
		observers = append(observers, o)
	}
	c.mu.Unlock()

	if version <= c.delivered {
		return
	}
	c.delivered = version
	for _, o := range observers {
		o(state)
	}
}
