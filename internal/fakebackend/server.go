// Package fakebackend is an in-memory implementation of the admissions REST backend,
// used by tests and by the hidden fake-backend command.
package fakebackend

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SessionCookie is the name of the cookie carrying the admin session id.
const SessionCookie = "admin_session"

// Default credentials seeded by New unless WithAdmin is given.
const (
	DefaultAdminEmail  = "admin@admitere.ro"
	DefaultAdminParola = "admin"
)

type Server struct {
	Store  *Store
	router *gin.Engine
	logger logrus.FieldLogger
}

type Option func(*config)

type config struct {
	logger   logrus.FieldLogger
	now      func() time.Time
	admins   [][2]string
	seedDemo bool
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *config) { c.logger = logger }
}

// WithClock fixes the time used for createdAt stamps.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

func WithAdmin(email, parola string) Option {
	return func(c *config) { c.admins = append(c.admins, [2]string{email, parola}) }
}

// WithDemoData seeds a few faculties, programs and candidates.
func WithDemoData() Option {
	return func(c *config) { c.seedDemo = true }
}

func New(opts ...Option) *Server {
	cfg := config{logger: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if len(cfg.admins) == 0 {
		cfg.admins = [][2]string{{DefaultAdminEmail, DefaultAdminParola}}
	}

	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		Store:  NewStore(cfg.now),
		router: gin.New(),
		logger: cfg.logger,
	}
	for _, a := range cfg.admins {
		s.Store.AddAdmin(a[0], a[1])
	}
	if cfg.seedDemo {
		s.Store.SeedDemo()
	}
	s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(gin.Recovery(), s.requestLogger())

	auth := s.router.Group("/api/auth")
	{
		auth.POST("/login", s.login)
		auth.GET("/me", s.me)
		auth.POST("/logout", s.logout)
	}

	admin := s.router.Group("/api/admin", s.requireSession)
	{
		admin.GET("/facultati", s.listFacultati)
		admin.POST("/facultati", s.createFacultate)
		admin.PUT("/facultati/:id", s.updateFacultate)
		admin.DELETE("/facultati/:id", s.deleteFacultate)

		admin.GET("/programe-studiu", s.listPrograme)
		admin.POST("/programe-studiu", s.createProgram)
		admin.PUT("/programe-studiu/:id", s.updateProgram)
		admin.DELETE("/programe-studiu/:id", s.deleteProgram)

		admin.GET("/candidati", s.listCandidati)
		admin.POST("/candidati", s.createCandidat)
		admin.PUT("/candidati/:id", s.updateCandidat)
		admin.DELETE("/candidati/:id", s.deleteCandidat)

		admin.GET("/dosare", s.listDosare)
		admin.POST("/dosare", s.createDosar)
		admin.PUT("/dosare/:id", s.updateDosar)
		admin.DELETE("/dosare/:id", s.deleteDosar)

		admin.GET("/optiuni", s.listOptiuni)
		admin.POST("/optiuni", s.createOptiune)
		admin.PUT("/optiuni/:id", s.updateOptiune)
		admin.DELETE("/optiuni/:id", s.deleteOptiune)

		admin.GET("/admini", s.listAdmini)
		admin.POST("/admini", s.createAdmin)
		admin.PUT("/admini/:id", s.updateAdmin)
		admin.DELETE("/admini/:id", s.deleteAdmin)

		admin.POST("/procesare", s.procesare)
		admin.GET("/rezultate", s.rezultate)

		admin.GET("/rapoarte/inscrieri-program", s.raportInscrieri)
		admin.GET("/rapoarte/inscrieri-program.csv", s.raportInscrieriCSV)
		admin.GET("/rapoarte/inscrieri-program.pdf", s.raportInscrieriPDF)
		admin.GET("/rapoarte/rezultate-facultati", s.raportFacultati)
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		s.logger.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(started),
		}).Debug("fake backend request")
	}
}

// requireSession answers 401 with an empty body, like the real filter.
func (s *Server) requireSession(c *gin.Context) {
	sid, err := c.Cookie(SessionCookie)
	if err != nil {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if _, ok := s.Store.session(sid); !ok {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	c.Next()
}
