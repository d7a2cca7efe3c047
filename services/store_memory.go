// services/store_memory.go - In-memory SessionStore
//
// Used by the test suite and by local development without PostgreSQL.
// It emulates the record-store contract: Get hands out copies, so
// mutations only take effect through Update.
package services

import (
	"sync"

	"quizarena/models"
)

type MemorySessionStore struct {
	mu           sync.Mutex
	sessions     map[string]*models.Session
	nextPlayerID uint
	nextMsgID    uint
	nextAnswerID uint
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*models.Session)}
}

func (m *MemorySessionStore) Create(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range s.Players {
		if s.Players[i].ID == 0 {
			m.nextPlayerID++
			s.Players[i].ID = m.nextPlayerID
		}
	}
	m.sessions[s.ID] = copySession(s)
	return nil
}

func (m *MemorySessionStore) Get(id string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copySession(s), nil
}

func (m *MemorySessionStore) Update(s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.sessions[s.ID]
	if !ok {
		return ErrNotFound
	}
	for i := range s.Players {
		if s.Players[i].ID == 0 {
			m.nextPlayerID++
			s.Players[i].ID = m.nextPlayerID
		}
	}
	next := copySession(s)
	next.Messages = stored.Messages // chat log is append-only, owned by AppendMessage
	m.sessions[s.ID] = next
	return nil
}

func (m *MemorySessionStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MemorySessionStore) AppendMessage(msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[msg.SessionID]
	if !ok {
		return ErrNotFound
	}
	m.nextMsgID++
	msg.ID = m.nextMsgID
	s.Messages = append(s.Messages, *msg)
	return nil
}

func (m *MemorySessionStore) AppendAnswer(a *models.PlayerAnswer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		for i := range s.Players {
			if s.Players[i].ID == a.PlayerID {
				m.nextAnswerID++
				a.ID = m.nextAnswerID
				s.Players[i].Answers = append(s.Players[i].Answers, *a)
				return nil
			}
		}
	}
	return ErrNotFound
}

func copySession(s *models.Session) *models.Session {
	out := *s
	out.Players = make([]models.SessionPlayer, len(s.Players))
	copy(out.Players, s.Players)
	for i := range out.Players {
		answers := make([]models.PlayerAnswer, len(s.Players[i].Answers))
		copy(answers, s.Players[i].Answers)
		out.Players[i].Answers = answers
	}
	out.Messages = make([]models.ChatMessage, len(s.Messages))
	copy(out.Messages, s.Messages)
	return &out
}
