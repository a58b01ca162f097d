package users

import (
	"context"
	"sort"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"
)

// User is the resource served by the Users module.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserService keeps users in memory.
type UserService struct {
	log logrus.FieldLogger

	mu     sync.RWMutex
	users  map[string]User
	nextID int
}

// NewUserService is the UserService constructor; the logger is injected by
// its "logger" token.
func NewUserService(log *logrus.Logger) *UserService {
	return &UserService{log: log.WithField("service", "users"), users: make(map[string]User)}
}

// OnModuleInit seeds the demo users.
func (s *UserService) OnModuleInit(context.Context) error {
	s.Create("Alice", "alice@example.com")
	s.Create("Bob", "bob@example.com")
	s.log.WithField("count", s.Count()).Info("users seeded")
	return nil
}

// OnModuleDestroy drops every user.
func (s *UserService) OnModuleDestroy(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = make(map[string]User)
	s.log.Info("users dropped")
	return nil
}

func (s *UserService) Find(id string) (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	return u, ok
}

// All returns every user ordered by id.
func (s *UserService) All() []User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		a, _ := strconv.Atoi(out[i].ID)
		b, _ := strconv.Atoi(out[j].ID)
		return a < b
	})
	return out
}

func (s *UserService) Create(name, email string) User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	u := User{ID: strconv.Itoa(s.nextID), Name: name, Email: email}
	s.users[u.ID] = u
	return u
}

func (s *UserService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
