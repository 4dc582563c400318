package resource

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/forms"
)

// Fallback messages when a failure carries no text of its own.
const (
	MsgLoadFailed   = "Nu pot incarca datele."
	MsgSubmitFailed = "Operatiune esuata."
	MsgDeleteFailed = "Stergere esuata."
)

// ErrDisposed is returned by operations on a controller whose page has been left.
var ErrDisposed = errors.New("controller disposed")

// Binding describes one entity collection of the backend.
type Binding[T, D, P any] struct {
	Path      string
	ID        func(T) int64
	Empty     func() D
	Parse     func(d D, editing bool) (P, forms.ValidationErrors)
	DraftFrom func(T) D
	// Related, when set, is fetched alongside every list load. The returned apply func
	// runs only if the load itself is applied.
	Related func(ctx context.Context) (apply func(), err error)
}

// State is what a page renders.
type State[T, D any] struct {
	Items     []T
	Form      D
	EditingID *int64
	Error     string
	Filter    url.Values
}

// Editing reports whether the form edits an existing item.
func (s State[T, D]) Editing() bool {
	return s.EditingID != nil
}

// Controller keeps one page's copy of a collection in sync with the backend. Every
// mutation is followed by a full reload; the list is never patched locally.
type Controller[T, D, P any] struct {
	client  *apiclient.Client
	binding Binding[T, D, P]
	logger  logrus.FieldLogger

	mu       sync.Mutex
	state    State[T, D]
	disposed bool
	issued   uint64
	applied  uint64
}

func NewController[T, D, P any](client *apiclient.Client, binding Binding[T, D, P], logger logrus.FieldLogger) *Controller[T, D, P] {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	c := &Controller[T, D, P]{
		client:  client,
		binding: binding,
		logger:  logger.WithField("resource", binding.Path),
	}
	c.state.Form = binding.Empty()
	c.state.Items = []T{}
	return c
}

// Snapshot returns a copy of the current state.
func (c *Controller[T, D, P]) Snapshot() State[T, D] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = append([]T(nil), c.state.Items...)
	if c.state.EditingID != nil {
		id := *c.state.EditingID
		s.EditingID = &id
	}
	if c.state.Filter != nil {
		s.Filter = cloneValues(c.state.Filter)
	}
	return s
}

// Load refreshes the list with the current filter.
func (c *Controller[T, D, P]) Load(ctx context.Context) error {
	c.mu.Lock()
	query := cloneValues(c.state.Filter)
	c.mu.Unlock()
	return c.load(ctx, query)
}

// LoadWith replaces the filter with query and refreshes the list. A nil query resets it.
func (c *Controller[T, D, P]) LoadWith(ctx context.Context, query url.Values) error {
	query = nonEmpty(query)
	c.mu.Lock()
	c.state.Filter = query
	c.mu.Unlock()
	return c.load(ctx, cloneValues(query))
}

// ApplyFilter validates a filter before loading with it. On validation failure the
// message goes to the error slot and nothing is sent.
func (c *Controller[T, D, P]) ApplyFilter(ctx context.Context, build func() (url.Values, forms.ValidationErrors)) error {
	query, errs := build()
	if !errs.OK() {
		c.setError(errs.First())
		return errs
	}
	return c.LoadWith(ctx, query)
}

func (c *Controller[T, D, P]) load(ctx context.Context, query url.Values) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.state.Error = ""
	c.issued++
	gen := c.issued
	c.mu.Unlock()

	var (
		items []T
		apply func()
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = apiclient.List[T](gctx, c.client, c.binding.Path, query)
		return err
	})
	if c.binding.Related != nil {
		g.Go(func() error {
			var err error
			apply, err = c.binding.Related(gctx)
			return err
		})
	}
	err := g.Wait()

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return ErrDisposed
	}
	if gen < c.applied {
		c.logger.WithField("generation", gen).Debug("dropping stale load")
		return nil
	}
	c.applied = gen
	if err != nil {
		c.state.Error = messageOr(err, MsgLoadFailed)
		c.logger.WithError(err).Debug("load failed")
		return err
	}
	c.state.Items = items
	if apply != nil {
		apply()
	}
	return nil
}

// SetForm applies edit to the draft.
func (c *Controller[T, D, P]) SetForm(edit func(*D)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	edit(&c.state.Form)
}

// StartEdit fills the form from item and switches to edit mode.
func (c *Controller[T, D, P]) StartEdit(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.binding.ID(item)
	c.state.Form = c.binding.DraftFrom(item)
	c.state.EditingID = &id
}

func (c *Controller[T, D, P]) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Form = c.binding.Empty()
	c.state.EditingID = nil
}

// Submit creates or updates from the form, then reloads. Validation failures never
// reach the network.
func (c *Controller[T, D, P]) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.state.Error = ""
	form := c.state.Form
	editing := c.state.EditingID
	c.mu.Unlock()

	payload, errs := c.binding.Parse(form, editing != nil)
	if !errs.OK() {
		c.setError(errs.First())
		return errs
	}

	req := apiclient.Request{Method: http.MethodPost, Path: c.binding.Path, Body: payload}
	if editing != nil {
		req.Method = http.MethodPut
		req.Path = apiclient.ItemPath(c.binding.Path, *editing)
	}
	_, err := c.client.Do(ctx, req, nil)

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if err != nil {
		c.state.Error = messageOr(err, MsgSubmitFailed)
		c.mu.Unlock()
		c.logger.WithError(err).WithField("method", req.Method).Debug("submit failed")
		return err
	}
	c.state.Form = c.binding.Empty()
	c.state.EditingID = nil
	c.mu.Unlock()

	return c.Load(ctx)
}

// Delete removes id on the backend, then reloads. On failure the list is left as is.
func (c *Controller[T, D, P]) Delete(ctx context.Context, id int64) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	c.state.Error = ""
	c.mu.Unlock()

	err := apiclient.Delete(ctx, c.client, apiclient.ItemPath(c.binding.Path, id))

	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	if err != nil {
		c.state.Error = messageOr(err, MsgDeleteFailed)
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	return c.Load(ctx)
}

// Dispose marks the page as left. Responses arriving afterwards are dropped.
func (c *Controller[T, D, P]) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.disposed = true
}

// Find returns the loaded item with the given id.
func (c *Controller[T, D, P]) Find(id int64) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, item := range c.state.Items {
		if c.binding.ID(item) == id {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *Controller[T, D, P]) setError(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.disposed {
		c.state.Error = msg
	}
}

func messageOr(err error, fallback string) string {
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return fallback
}

func nonEmpty(q url.Values) url.Values {
	if len(q) == 0 {
		return nil
	}
	out := url.Values{}
	for k, vs := range q {
		for _, v := range vs {
			if v != "" {
				out.Add(k, v)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func cloneValues(q url.Values) url.Values {
	if q == nil {
		return nil
	}
	out := make(url.Values, len(q))
	for k, vs := range q {
		out[k] = append([]string(nil), vs...)
	}
	return out
}
