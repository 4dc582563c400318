// Package search implements the faculty autocomplete used by the program form.
package search

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sirupsen/logrus"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

type State int

const (
	Idle State = iota
	Querying
	SuggestionsShown
	Resolved
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Querying:
		return "querying"
	case SuggestionsShown:
		return "suggestions"
	case Resolved:
		return "resolved"
	default:
		return "unknown"
	}
}

// View is a copy of the select's state for rendering.
type View struct {
	State       State
	Text        string
	Suggestions []models.Facultate
	FacultateID *int64
	Error       string
}

// Select resolves typed text to a faculty id. Only the Resolved state carries an id;
// any keystroke drops it.
type Select struct {
	client *apiclient.Client
	logger logrus.FieldLogger

	mu          sync.Mutex
	state       State
	text        string
	suggestions []models.Facultate
	resolved    *models.Facultate
	err         string
	ticket      uint64

	debouncer *Debouncer
	ctx       context.Context
	onUpdate  func(View)
}

func NewSelect(client *apiclient.Client, logger logrus.FieldLogger) *Select {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Select{client: client, logger: logger.WithField("component", "facultate-select")}
}

// Debounce makes Type schedule its query after the debouncer's delay, using ctx for the
// request. onUpdate, if set, receives the view after each applied query.
func (s *Select) Debounce(ctx context.Context, d *Debouncer, onUpdate func(View)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ctx, s.debouncer, s.onUpdate = ctx, d, onUpdate
}

// Type records a keystroke and returns the ticket of the query it schedules. Blank text
// keeps an open list open with every faculty; otherwise it closes the list and returns 0.
func (s *Select) Type(text string) uint64 {
	s.mu.Lock()
	open := s.state == Querying || s.state == SuggestionsShown
	s.text = text
	s.resolved = nil
	s.err = ""
	s.ticket++
	if strings.TrimSpace(text) == "" && !open {
		s.state = Idle
		s.suggestions = nil
		d := s.debouncer
		s.mu.Unlock()
		if d != nil {
			d.Stop()
		}
		return 0
	}
	if s.state == Resolved {
		s.state = Idle
	}
	ticket := s.ticket
	s.mu.Unlock()

	s.schedule(ticket)
	return ticket
}

// Open asks for suggestions for the current text, blank included, as focusing the
// field does.
func (s *Select) Open() uint64 {
	s.mu.Lock()
	s.ticket++
	ticket := s.ticket
	s.mu.Unlock()

	s.schedule(ticket)
	return ticket
}

func (s *Select) schedule(ticket uint64) {
	s.mu.Lock()
	d, ctx := s.debouncer, s.ctx
	s.mu.Unlock()
	if d == nil {
		return
	}
	d.Trigger(func() {
		_ = s.Query(ctx, ticket)
		s.mu.Lock()
		notify := s.onUpdate
		s.mu.Unlock()
		if notify != nil {
			notify(s.Snapshot())
		}
	})
}

// Query fetches suggestions for ticket. Results for a superseded ticket are dropped.
func (s *Select) Query(ctx context.Context, ticket uint64) error {
	s.mu.Lock()
	if ticket != s.ticket {
		s.mu.Unlock()
		return nil
	}
	s.state = Querying
	text := strings.TrimSpace(s.text)
	s.mu.Unlock()

	var query url.Values
	if text != "" {
		query = url.Values{"q": {text}}
	}
	items, err := apiclient.List[models.Facultate](ctx, s.client, models.PathFacultati, query)

	s.mu.Lock()
	defer s.mu.Unlock()
	if ticket != s.ticket {
		s.logger.WithField("ticket", ticket).Debug("dropping stale suggestions")
		return nil
	}
	if err != nil {
		s.err = apiclient.Message(err)
		s.state = Idle
		return err
	}
	s.suggestions = Rank(text, items)
	s.state = SuggestionsShown
	return nil
}

// Choose resolves the select to f.
func (s *Select) Choose(f models.Facultate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket++
	chosen := f
	s.resolved = &chosen
	s.text = f.Nume
	s.suggestions = nil
	s.err = ""
	s.state = Resolved
}

// Dismiss hides the suggestions. A resolved id is kept.
func (s *Select) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket++
	s.suggestions = nil
	if s.resolved != nil {
		s.state = Resolved
	} else {
		s.state = Idle
	}
}

func (s *Select) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ticket++
	s.text = ""
	s.resolved = nil
	s.suggestions = nil
	s.err = ""
	s.state = Idle
}

// Preset puts the select in Resolved for an item being edited.
func (s *Select) Preset(id int64, nume string) {
	s.Choose(models.Facultate{ID: id, Nume: nume})
}

func (s *Select) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := View{
		State:       s.state,
		Text:        s.text,
		Suggestions: append([]models.Facultate(nil), s.suggestions...),
		Error:       s.err,
	}
	if s.resolved != nil {
		id := s.resolved.ID
		v.FacultateID = &id
	}
	return v
}

// Rank orders faculties by fuzzy closeness to text. Ties and non-matches keep the
// server order, non-matches last.
func Rank(text string, items []models.Facultate) []models.Facultate {
	if text == "" || len(items) == 0 {
		return append([]models.Facultate(nil), items...)
	}
	names := make([]string, len(items))
	for i, f := range items {
		names[i] = f.Nume
	}
	ranks := fuzzy.RankFindNormalizedFold(text, names)
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Distance != ranks[j].Distance {
			return ranks[i].Distance < ranks[j].Distance
		}
		return ranks[i].OriginalIndex < ranks[j].OriginalIndex
	})

	out := make([]models.Facultate, 0, len(items))
	seen := make(map[int]bool, len(ranks))
	for _, r := range ranks {
		out = append(out, items[r.OriginalIndex])
		seen[r.OriginalIndex] = true
	}
	for i, f := range items {
		if !seen[i] {
			out = append(out, f)
		}
	}
	return out
}
