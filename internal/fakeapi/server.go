package fakeapi

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
)

// TokenTTL matches the production backend.
const TokenTTL = time.Hour

type User struct {
	models.User
	Password string
}

// Request is one recorded call.
type Request struct {
	Method        string
	Path          string
	Authorization string
}

type failure struct {
	status int
	body   string
}

type Server struct {
	router *mux.Router
	secret []byte
	now    func() time.Time

	mu       sync.Mutex
	users    map[int64]*User
	skills   []models.Skill
	posts    map[int64]*models.Post
	calls    map[int64]*models.Call
	callPost map[int64]int64
	nextID   int64
	requests []Request
	failures map[string][]failure
}

type Option func(*Server)

func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

func WithSecret(secret []byte) Option {
	return func(s *Server) { s.secret = secret }
}

func New(opts ...Option) *Server {
	s := &Server{
		secret:   []byte("fakeapi-secret"),
		now:      time.Now,
		users:    make(map[int64]*User),
		posts:    make(map[int64]*models.Post),
		calls:    make(map[int64]*models.Call),
		callPost: make(map[int64]int64),
		failures: make(map[string][]failure),
	}
	for _, o := range opts {
		o(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)

	r.HandleFunc("/users/add-balance", s.authed(s.handleAddBalance)).Methods(http.MethodPost)
	r.HandleFunc("/users/{id:[0-9]+}", s.authed(s.handleGetUser)).Methods(http.MethodGet)
	r.HandleFunc("/users/{id:[0-9]+}", s.authed(s.handleUpdateUser)).Methods(http.MethodPut)

	r.HandleFunc("/skills/public", s.handleListSkills).Methods(http.MethodGet)

	r.HandleFunc("/posts", s.authed(s.handleListPosts)).Methods(http.MethodGet)
	r.HandleFunc("/posts", s.authed(s.handleCreatePost)).Methods(http.MethodPost)
	r.HandleFunc("/posts/user/id/{id:[0-9]+}", s.authed(s.handleUserPosts)).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", s.authed(s.handleGetPost)).Methods(http.MethodGet)
	r.HandleFunc("/posts/{id:[0-9]+}", s.authed(s.handleDeletePost)).Methods(http.MethodDelete)

	r.HandleFunc("/calls", s.authed(s.handleCreateCall)).Methods(http.MethodPost)
	r.HandleFunc("/calls/schedule", s.authed(s.handleScheduleCall)).Methods(http.MethodPost)
	return r
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	s.requests = append(s.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Authorization: r.Header.Get("Authorization"),
	})
	key := r.Method + " " + r.URL.Path
	var injected *failure
	if queue := s.failures[key]; len(queue) > 0 {
		f := queue[0]
		injected = &f
		s.failures[key] = queue[1:]
	}
	s.mu.Unlock()

	if injected != nil {
		writeText(w, injected.status, injected.body)
		return
	}
	s.router.ServeHTTP(w, r)
}

// FailNext makes the next request matching method and path answer status
// with a plain-text body instead of being served.
func (s *Server) FailNext(method, path string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := method + " " + path
	s.failures[key] = append(s.failures[key], failure{status: status, body: body})
}

// Requests returns the requests served so far, in arrival order.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

// RequestsTo returns the recorded requests for method and path.
func (s *Server) RequestsTo(method, path string) []Request {
	var out []Request
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

// SeedSkill adds a predefined catalog skill.
func (s *Server) SeedSkill(name string) models.Skill {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.skillLocked(name, true)
}

func (s *Server) skillLocked(name string, predefined bool) models.Skill {
	for _, sk := range s.skills {
		if strings.EqualFold(sk.Name, name) {
			return sk
		}
	}
	sk := models.Skill{ID: s.id(), Name: name, Predefined: predefined}
	s.skills = append(s.skills, sk)
	return sk
}

func (s *Server) SeedUser(username, email, password string, skills ...string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.createUserLocked(username, email, password, skills)
}

func (s *Server) createUserLocked(username, email, password string, skills []string) *User {
	u := &User{
		User: models.User{
			ID:             s.id(),
			Username:       username,
			Email:          email,
			Skills:         make([]models.SkillRef, 0, len(skills)),
			ScheduledCalls: []models.Call{},
		},
		Password: password,
	}
	for _, name := range skills {
		s.skillLocked(name, false)
		u.Skills = append(u.Skills, models.SkillRef{Name: name})
	}
	s.users[u.ID] = u
	return u
}

// SeedPost stores p, assigning ids to it and to its calls.
func (s *Server) SeedPost(p models.Post) models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id()
	p.IsActive = true
	calls := p.Calls
	p.Calls = []models.Call{}
	s.posts[p.ID] = &p
	for _, c := range calls {
		c.ID = s.id()
		if c.Owner.ID == 0 {
			c.Owner = p.Owner
		}
		s.addCallLocked(p.ID, c)
	}
	return s.postLocked(p.ID)
}

func (s *Server) addCallLocked(postID int64, c models.Call) {
	if c.Status == "" {
		c.Status = models.CallStatusScheduled
	}
	if c.Participants == nil {
		c.Participants = []models.BasicUser{}
	}
	s.calls[c.ID] = &c
	s.callPost[c.ID] = postID
}

// postLocked assembles the post with its calls in id order.
func (s *Server) postLocked(id int64) models.Post {
	p := *s.posts[id]
	p.Calls = []models.Call{}
	for cid, pid := range s.callPost {
		if pid == id {
			p.Calls = append(p.Calls, s.calls[cid].Clone())
		}
	}
	sort.Slice(p.Calls, func(i, j int) bool { return p.Calls[i].ID < p.Calls[j].ID })
	return p
}

func (s *Server) userLocked(id int64) models.User {
	u := s.users[id].User.Clone()
	u.ScheduledCalls = []models.Call{}
	for _, c := range s.calls {
		if c.HasParticipant(id) {
			u.ScheduledCalls = append(u.ScheduledCalls, c.Clone())
		}
	}
	sort.Slice(u.ScheduledCalls, func(i, j int) bool { return u.ScheduledCalls[i].ID < u.ScheduledCalls[j].ID })
	return *u
}

// User returns the stored profile of id.
func (s *Server) User(id int64) (models.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return models.User{}, false
	}
	return s.userLocked(id), true
}

func (s *Server) Post(id int64) (models.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return models.Post{}, false
	}
	return s.postLocked(id), true
}
