package coordinator

import (
	"errors"
	"sync"
	"time"

	"github.com/concave-dev/gfnprobe/internal/device"
	"github.com/concave-dev/gfnprobe/internal/names"
	"github.com/concave-dev/gfnprobe/internal/utils"
)

var (
	errSessionNotFound = errors.New("session not found")
	errAlreadyFinished = errors.New("session already finished")
)

// Session is the coordinator's record of one orchestrator run.
type Session struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Host       string             `json:"host,omitempty"`
	Standalone bool               `json:"standalone"`
	Assignment *device.Assignment `json:"assignment,omitempty"`
	Created    time.Time          `json:"created"`
	Finished   *time.Time         `json:"finished,omitempty"`
	Status     *int               `json:"status,omitempty"`
}

// store keeps sessions in memory for the lifetime of the coordinator.
type store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func newStore() *store {
	return &store{sessions: make(map[string]*Session)}
}

func (s *store) create(host string, standalone bool, a *device.Assignment) (Session, error) {
	id, err := utils.GenerateID()
	if err != nil {
		return Session{}, err
	}
	sess := &Session{
		ID:         id,
		Name:       host,
		Host:       host,
		Standalone: standalone,
		Created:    time.Now(),
	}
	if sess.Name == "" {
		sess.Name = names.Generate()
	}
	if a != nil {
		cp := *a
		sess.Assignment = &cp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = sess
	return *sess, nil
}

func (s *store) get(id string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, errSessionNotFound
	}
	return *sess, nil
}

// finish records status. A session can be finished once.
func (s *store) finish(id string, status int) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, errSessionNotFound
	}
	if sess.Finished != nil {
		return *sess, errAlreadyFinished
	}
	now := time.Now()
	sess.Finished = &now
	sess.Status = &status
	return *sess, nil
}

func (s *store) count() (total, open int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sess := range s.sessions {
		if sess.Finished == nil {
			open++
		}
	}
	return len(s.sessions), open
}
