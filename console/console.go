// Package console is the interactive admin terminal: a numbered menu over every admin page.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-faster/errors"
	"github.com/sirupsen/logrus"

	"github.com/nonsonwune/admitere_admin/apiclient"
	"github.com/nonsonwune/admitere_admin/config"
	"github.com/nonsonwune/admitere_admin/importer"
	"github.com/nonsonwune/admitere_admin/processing"
	"github.com/nonsonwune/admitere_admin/search"
	"github.com/nonsonwune/admitere_admin/session"
)

// Options tune the console. OptionsFrom fills them from the loaded configuration.
type Options struct {
	SearchDebounce time.Duration
	BannerTTL      time.Duration
	WorkerCount    int
	ExportDir      string
	FailedDir      string
	Now            func() time.Time
}

func OptionsFrom(cfg *config.Config) Options {
	return Options{
		SearchDebounce: cfg.SearchDebounce,
		BannerTTL:      cfg.BannerTTL,
		WorkerCount:    cfg.WorkerCount,
		ExportDir:      cfg.ExportDir,
		FailedDir:      "failed_imports",
	}
}

type Console struct {
	terminal
	client  *apiclient.Client
	gate    *session.Gate
	trigger *processing.Trigger
	opts    Options
	logger  logrus.FieldLogger

	session *session.Context
}

func New(client *apiclient.Client, gate *session.Gate, in io.Reader, out io.Writer, opts Options, logger logrus.FieldLogger) *Console {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.WorkerCount <= 0 {
		opts.WorkerCount = importer.DefaultWorkerCount
	}
	if opts.BannerTTL <= 0 {
		opts.BannerTTL = processing.DefaultBannerTTL
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}
	if opts.FailedDir == "" {
		opts.FailedDir = "failed_imports"
	}
	return &Console{
		terminal: terminal{in: bufio.NewReader(in), out: out},
		client:   client,
		gate:     gate,
		trigger: processing.NewTrigger(client, logger,
			processing.WithBannerTTL(opts.BannerTTL), processing.WithClock(opts.Now)),
		opts:   opts,
		logger: logger.WithField("component", "console"),
	}
}

// Run mounts the session, asking for credentials when there is none, and serves the menu
// until the user exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	err := c.run(ctx)
	if errors.Is(err, io.EOF) {
		c.println()
		return nil
	}
	return err
}

func (c *Console) run(ctx context.Context) error {
	sc, err := c.gate.Mount(ctx)
	if err != nil {
		c.logger.WithError(err).Debug("no active session")
		if sc, err = c.login(ctx); err != nil {
			return err
		}
	}
	c.session = sc

	for {
		if !c.session.Valid() {
			if c.session, err = c.login(ctx); err != nil {
				return err
			}
		}
		c.displayMenu()
		choice, err := c.readLine()
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = c.facultatiPage(ctx)
		case "2":
			err = c.programePage(ctx)
		case "3":
			err = c.candidatiPage(ctx)
		case "4":
			err = c.dosarePage(ctx)
		case "5":
			err = c.optiuniPage(ctx)
		case "6":
			err = c.rezultatePage(ctx)
		case "7":
			err = c.rapoartePage(ctx)
		case "8":
			err = c.adminiPage(ctx)
		case "9":
			err = c.importPage(ctx)
		case "10":
			err = c.procesare(ctx)
		case "11":
			c.logout(ctx)
		case "12":
			c.success("La revedere!")
			return nil
		default:
			c.fail("Optiune invalida. Incearca din nou.")
		}
		if err != nil {
			return err
		}
	}
}

func (c *Console) displayMenu() {
	c.title("=== Admitere - Administrare ===")
	c.println("Conectat ca", c.session.Admin.Email)
	if banner := c.trigger.Banner(); banner.Visible(c.opts.Now()) {
		c.success("%s", banner.Message())
	}
	c.println("1. Facultati")
	c.println("2. Programe studiu")
	c.println("3. Candidati")
	c.println("4. Dosare")
	c.println("5. Optiuni")
	c.println("6. Rezultate")
	c.println("7. Rapoarte")
	c.println("8. Administratori")
	c.println("9. Import candidati")
	c.println("10. Proceseaza admiterea")
	c.println("11. Deconectare")
	c.println("12. Iesire")
	fmt.Fprint(c.out, "\nAlege (1-12): ")
}

// login asks for credentials until the backend accepts them.
func (c *Console) login(ctx context.Context) (*session.Context, error) {
	c.title("=== Autentificare ===")
	for {
		email, err := c.prompt("Email")
		if err != nil {
			return nil, err
		}
		parola, err := c.prompt("Parola")
		if err != nil {
			return nil, err
		}
		sc, err := c.gate.Login(ctx, email, parola)
		if err == nil {
			c.success("Bine ai venit, %s!", sc.Admin.Email)
			return sc, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.fail(loginMessage(err))
	}
}

func loginMessage(err error) string {
	if msg := apiclient.Message(err); msg != "" {
		return msg
	}
	return "Autentificare esuata."
}

// logout always ends the local session, even when the backend call fails.
func (c *Console) logout(ctx context.Context) {
	if err := c.gate.Logout(ctx, c.session); err != nil {
		msg := apiclient.Message(err)
		if msg == "" {
			msg = "Eroare la deconectare."
		}
		c.fail(msg)
		return
	}
	c.success("Deconectat.")
}

// ignoreRemote swallows backend and validation failures, whose messages the pages
// already show, and keeps cancellation and end of input.
func (c *Console) ignoreRemote(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

func (c *Console) newSelect(ctx context.Context) (*search.Select, *search.Debouncer) {
	sel := search.NewSelect(c.client, c.logger)
	d := search.NewDebouncer(c.opts.SearchDebounce)
	sel.Debounce(ctx, d, nil)
	return sel, d
}
