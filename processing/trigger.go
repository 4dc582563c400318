// Package processing starts the backend's admission allocation run and keeps the
// summary banner shown after it.
package processing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/models"
)

// DefaultBannerTTL is how long the summary stays visible.
const DefaultBannerTTL = 10 * time.Second

// ErrInFlight is returned when a run is requested while another one is pending.
var ErrInFlight = errors.New("procesarea este deja in curs")

// Trigger posts a processing request, at most one at a time.
type Trigger struct {
	client *apiclient.Client
	logger logrus.FieldLogger
	ttl    time.Duration
	now    func() time.Time

	mu       sync.Mutex
	inFlight bool
	banner   Banner
	err      string
}

type Option func(*Trigger)

func WithBannerTTL(ttl time.Duration) Option {
	return func(t *Trigger) { t.ttl = ttl }
}

func WithClock(now func() time.Time) Option {
	return func(t *Trigger) { t.now = now }
}

func NewTrigger(client *apiclient.Client, logger logrus.FieldLogger, opts ...Option) *Trigger {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	t := &Trigger{
		client: client,
		logger: logger.WithField("component", "procesare"),
		ttl:    DefaultBannerTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run starts a processing run. Any previous banner is hidden while it runs. On success the
// new banner is shown for the configured TTL; on failure only the error slot is set.
func (t *Trigger) Run(ctx context.Context) (*models.ProcesareAdmitereResult, error) {
	t.mu.Lock()
	if t.inFlight {
		t.mu.Unlock()
		return nil, ErrInFlight
	}
	t.inFlight = true
	t.err = ""
	t.banner = Banner{}
	t.mu.Unlock()

	res, err := apiclient.Post[models.ProcesareAdmitereResult](ctx, t.client, models.PathProcesare, nil)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.inFlight = false
	if err != nil {
		t.err = apiclient.Message(err)
		return nil, err
	}
	if res == nil {
		res = &models.ProcesareAdmitereResult{}
	}
	t.banner = Banner{Result: *res, Until: t.now().Add(t.ttl)}
	t.logger.WithFields(logrus.Fields{
		"procesate": res.DosareProcesate,
		"admise":    res.DosareAdmise,
		"nealocate": res.DosareNealocate,
	}).Info("processing finished")
	return res, nil
}

// Running reports whether a run is pending.
func (t *Trigger) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.inFlight
}

func (t *Trigger) Banner() Banner {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.banner
}

// Error returns the message of the last failed run, cleared by the next run.
func (t *Trigger) Error() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Banner is the processing summary. The zero value is never visible.
type Banner struct {
	Result models.ProcesareAdmitereResult
	Until  time.Time
}

func (b Banner) Visible(now time.Time) bool {
	return !b.Until.IsZero() && now.Before(b.Until)
}

func (b Banner) Message() string {
	return fmt.Sprintf("Procesare finalizata: %d dosare, %d admisi, %d respinsi.",
		b.Result.DosareProcesate, b.Result.DosareAdmise, b.Result.DosareNealocate)
}
