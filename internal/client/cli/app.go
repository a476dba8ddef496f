package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/brainswap/internal/client/client"
	"github.com/dmitrijs2005/brainswap/internal/client/config"
	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/client/services"
	"github.com/dmitrijs2005/brainswap/internal/client/session"
	"github.com/dmitrijs2005/brainswap/internal/logging"
)

const msgSessionEnded = "Your session has ended. Please log in again."

type App struct {
	config  *config.Config
	log     logging.Logger
	session *session.Manager

	authService    services.AuthService
	profileService services.ProfileService
	postService    services.PostService
	skillService   services.SkillService

	reader *bufio.Reader
	out    io.Writer
	loc    *time.Location

	tab     models.Tab
	current *models.Post
	catalog []models.Skill

	db *sql.DB
}

// NewApp opens the local session store and wires the HTTP client, the
// session manager and the services for c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "path", c.DatabasePath, "error", err)
		return nil, err
	}

	hc := client.NewHTTPClient(c.ServerURL,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(log),
	)
	mgr := session.NewManager(session.NewSQLiteStore(db), hc,
		session.WithCheckInterval(c.SessionCheckInterval),
		session.WithStorageWatch(c.DatabasePath),
		session.WithLogger(log),
	)

	a := newApp(mgr, hc, os.Stdin, os.Stdout)
	a.config = c
	a.log = log
	a.db = db
	return a, nil
}

// newApp binds mgr and api together and builds the services on top.
func newApp(mgr *session.Manager, hc *client.HTTPClient, in io.Reader, out io.Writer) *App {
	hc.SetTokenSource(mgr.Token)
	hc.SetOnUnavailable(mgr.HandleUnavailable)

	return &App{
		log:            logging.Nop(),
		session:        mgr,
		authService:    services.NewAuthService(mgr),
		profileService: services.NewProfileService(hc, mgr),
		postService:    services.NewPostService(hc, mgr),
		skillService:   services.NewSkillService(hc),
		reader:         bufio.NewReader(in),
		out:            &syncWriter{w: out},
		loc:            time.Local,
		tab:            models.TabTeaching,
	}
}

// Run restores the session, then blocks in the REPL until the user exits or
// input ends.
func (a *App) Run(ctx context.Context) error {
	unsubscribe := a.session.Subscribe(a.onSessionEvent)
	defer unsubscribe()

	if err := a.session.Start(ctx); err != nil {
		return err
	}
	defer a.session.Stop()

	if a.isLoggedIn() {
		a.println("Welcome back, " + a.username() + "!")
	} else {
		a.println("Welcome to BrainSwap. Type help to see the available commands.")
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

// Close releases the local session store.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func (a *App) isLoggedIn() bool {
	return a.session.IsAuthenticated()
}

func (a *App) username() string {
	if u := a.session.CurrentUser(); u != nil {
		return u.Username
	}
	if c, ok := a.session.Claims(); ok && c.Username != "" {
		return c.Username
	}
	return "?"
}

func (a *App) status() string {
	if !a.isLoggedIn() {
		return "brainswap> "
	}
	return fmt.Sprintf("brainswap (%s %s)> ", a.username(), models.FormatBalance(a.session.CurrentUser()))
}

// onSessionEvent turns session transitions into banners. It may run on the
// manager's poller goroutine.
func (a *App) onSessionEvent(ev session.Event) {
	switch ev.Reason {
	case session.ReasonUnavailable:
		a.println(ev.Message)
	case session.ReasonTokenExpired, session.ReasonTokenMissing,
		session.ReasonTokenMalformed, session.ReasonUnauthorized:
		a.println(msgSessionEnded)
	case session.ReasonStorage:
		if ev.State == session.StateAuthenticated {
			a.println("Session picked up from another window.")
		}
	}
}

func (a *App) println(args ...any) {
	fmt.Fprintln(a.out, args...)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// report prints the user-facing text for err and returns err. Connectivity
// failures are skipped: the session banner already announced them.
func (a *App) report(err error, fallback string) error {
	if !errors.Is(err, client.ErrUnavailable) {
		a.println(services.UserMessage(err, fallback))
	}
	return err
}

// loadCatalog fetches the skill catalog once per process.
func (a *App) loadCatalog(ctx context.Context) ([]models.Skill, error) {
	if a.catalog != nil {
		return a.catalog, nil
	}
	cat, err := a.skillService.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	a.catalog = cat
	return cat, nil
}

// syncWriter serializes writes from the REPL and the session poller.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}
