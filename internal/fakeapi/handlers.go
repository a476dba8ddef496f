package fakeapi

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/dmitrijs2005/brainswap/internal/client/models"
	"github.com/dmitrijs2005/brainswap/internal/jsonx"
)

type ctxKey struct{}

func writeJSON(w http.ResponseWriter, status int, v any) {
	b, err := jsonx.Marshal(v)
	if err != nil {
		writeText(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(b)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"message": msg})
}

func decode(r *http.Request, v any) bool {
	return jsonx.NewDecoder(r.Body).Decode(v) == nil
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func caller(r *http.Request) *Claims {
	c, _ := r.Context().Value(ctxKey{}).(*Claims)
	return c
}

// authed rejects requests without a valid, unexpired bearer token with 401
// and tokens of deleted users with 403.
func (s *Server) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.parseBearer(r.Header.Get("Authorization"))
		if err != nil {
			writeText(w, http.StatusUnauthorized, "")
			return
		}
		s.mu.Lock()
		_, ok := s.users[claims.UserID]
		s.mu.Unlock()
		if !ok {
			writeText(w, http.StatusForbidden, "")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	}
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decode(r, &req) {
		writeMessage(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	var found *User
	for _, u := range s.users {
		if u.Username == req.Username && u.Password == req.Password {
			found = u
			break
		}
	}
	var snapshot User
	if found != nil {
		snapshot = *found
	}
	s.mu.Unlock()

	if found == nil {
		writeText(w, http.StatusUnauthorized, "Bad credentials")
		return
	}
	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: s.IssueToken(snapshot, TokenTTL)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !decode(r, &req) {
		writeMessage(w, http.StatusBadRequest, "Malformed request")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}

	s.mu.Lock()
	for _, u := range s.users {
		if strings.EqualFold(u.Username, req.Username) {
			s.mu.Unlock()
			writeMessage(w, http.StatusBadRequest, "Username is already taken")
			return
		}
	}
	names := make([]string, 0, len(req.Skills))
	for _, sk := range req.Skills {
		names = append(names, sk.Name)
	}
	u := *s.createUserLocked(req.Username, req.Email, req.Password, names)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, models.AuthResponse{AccessToken: s.IssueToken(u, TokenTTL)})
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	u, ok := s.User(id)
	if !ok {
		writeText(w, http.StatusNotFound, "User not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if caller(r).UserID != id {
		writeText(w, http.StatusForbidden, "")
		return
	}
	var req models.UpdateUserRequest
	if !decode(r, &req) {
		writeMessage(w, http.StatusBadRequest, "Malformed request")
		return
	}
	if req.Username == "" || req.Email == "" {
		writeMessage(w, http.StatusBadRequest, "Username and email are required")
		return
	}

	s.mu.Lock()
	u := s.users[id]
	u.Username = req.Username
	u.Email = req.Email
	if req.Password != "" {
		u.Password = req.Password
	}
	if req.Balance != nil {
		u.Balance = *req.Balance
	}
	u.Skills = make([]models.SkillRef, 0, len(req.Skills))
	for _, sk := range req.Skills {
		s.skillLocked(sk.Name, false)
		u.Skills = append(u.Skills, sk)
	}
	out := s.userLocked(id)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleAddBalance(w http.ResponseWriter, r *http.Request) {
	var req models.AddBalanceRequest
	if !decode(r, &req) || req.Balance <= 0 {
		writeMessage(w, http.StatusBadRequest, "Amount must be positive")
		return
	}

	s.mu.Lock()
	u, ok := s.users[req.ID]
	if !ok {
		s.mu.Unlock()
		writeText(w, http.StatusNotFound, "User not found")
		return
	}
	u.Balance += float64(req.Balance)
	out := s.userLocked(req.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	out := append([]models.Skill{}, s.skills...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listPosts(keep func(models.Post) bool) []models.Post {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Post{}
	for id := range s.posts {
		p := s.postLocked(id)
		if keep(p) {
			out = append(out, p)
		}
	}
	sortPosts(out)
	return out
}

func sortPosts(posts []models.Post) {
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID < posts[j].ID })
}

func (s *Server) handleListPosts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.listPosts(func(models.Post) bool { return true }))
}

func (s *Server) handleUserPosts(w http.ResponseWriter, r *http.Request) {
	owner := pathID(r)
	writeJSON(w, http.StatusOK, s.listPosts(func(p models.Post) bool { return p.Owner.ID == owner }))
}

func (s *Server) handleGetPost(w http.ResponseWriter, r *http.Request) {
	p, ok := s.Post(pathID(r))
	if !ok {
		writeText(w, http.StatusNotFound, "Post not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title        string          `json:"title"`
		Description  string          `json:"description"`
		SkillID      int64           `json:"skillId"`
		OwnerID      int64           `json:"ownerId"`
		LearningType *string         `json:"learningType"`
		Type         models.PostType `json:"type"`
	}
	if !decode(r, &req) {
		writeMessage(w, http.StatusBadRequest, "Malformed request")
		return
	}
	if req.Title == "" || req.Description == "" || req.SkillID == 0 {
		writeMessage(w, http.StatusBadRequest, "Title, description and skill are required")
		return
	}
	if req.Type != models.PostTypeTeaching && req.Type != models.PostTypeLearnTogether {
		writeMessage(w, http.StatusBadRequest, "Unknown post type")
		return
	}

	s.mu.Lock()
	owner, ok := s.users[req.OwnerID]
	if !ok || req.OwnerID != caller(r).UserID {
		s.mu.Unlock()
		writeText(w, http.StatusForbidden, "")
		return
	}
	p := &models.Post{
		ID:          s.id(),
		Title:       req.Title,
		Description: req.Description,
		Owner:       models.BasicUser{ID: owner.ID, Username: owner.Username},
		SkillID:     req.SkillID,
		Type:        req.Type,
		IsActive:    true,
	}
	if req.LearningType != nil {
		p.LearningType = models.LearningType(*req.LearningType)
	}
	s.posts[p.ID] = p
	out := s.postLocked(p.ID)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, out)
}

func (s *Server) handleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		writeText(w, http.StatusNotFound, "Post not found")
		return
	}
	if p.Owner.ID != caller(r).UserID {
		writeText(w, http.StatusForbidden, "")
		return
	}
	delete(s.posts, id)
	for cid, pid := range s.callPost {
		if pid == id {
			delete(s.callPost, cid)
			delete(s.calls, cid)
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleCreateCall(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCallRequest
	if !decode(r, &req) {
		writeMessage(w, http.StatusBadRequest, "Malformed request")
		return
	}
	if req.MaxParticipants < 1 || req.ScheduledTime.IsZero() {
		writeMessage(w, http.StatusBadRequest, "Invalid call")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[req.PostID]
	if !ok {
		writeText(w, http.StatusNotFound, "Post not found")
		return
	}
	if p.Owner.ID != caller(r).UserID {
		writeText(w, http.StatusForbidden, "")
		return
	}
	c := models.Call{
		ID:              s.id(),
		ScheduledTime:   req.ScheduledTime,
		MaxParticipants: req.MaxParticipants,
		Owner:           p.Owner,
		IsActive:        true,
	}
	s.addCallLocked(p.ID, c)
	writeJSON(w, http.StatusCreated, s.calls[c.ID].Clone())
}

func (s *Server) handleScheduleCall(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleCallRequest
	if !decode(r, &req) {
		writeMessage(w, http.StatusBadRequest, "Malformed request")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.calls[req.CallID]
	if !ok {
		writeText(w, http.StatusNotFound, "Call not found")
		return
	}
	u, ok := s.users[req.UserID]
	if !ok || req.UserID != caller(r).UserID {
		writeText(w, http.StatusForbidden, "")
		return
	}
	if c.HasParticipant(u.ID) {
		writeText(w, http.StatusConflict, "User already scheduled this call")
		return
	}
	if c.CurrentParticipants >= c.MaxParticipants {
		writeText(w, http.StatusConflict, "Call is full")
		return
	}
	c.Participants = append(c.Participants, models.BasicUser{ID: u.ID, Username: u.Username})
	c.CurrentParticipants++
	writeJSON(w, http.StatusOK, c.Clone())
}
