// services/match_service.go - Match lifecycle state machine
//
// Owns every mutation of a session record. All lifecycle operations on
// one session are serialized through a per-session lock; operations on
// distinct sessions run in parallel. Each operation either fully applies
// or fails with a typed error.
package services

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"quizarena/models"

	"github.com/google/uuid"
)

// QuizContent is the external quiz collaborator. Correctness scoring and
// quiz length are its call, not the lifecycle manager's.
type QuizContent interface {
	// GetCorrectAnswer returns the correct option index and point value
	// for one question of a quiz.
	GetCorrectAnswer(quizID, questionID uint) (index, points int, err error)
	QuestionCount(quizID uint) (int, error)
}

type MatchService struct {
	store   SessionStore
	quizzes QuizContent
	locks   *keyedMutex
}

func NewMatchService(store SessionStore, quizzes QuizContent) *MatchService {
	return &MatchService{
		store:   store,
		quizzes: quizzes,
		locks:   newKeyedMutex(),
	}
}

// CreateMatchInput is the validated input for Create. Capacity is only
// honored for tournaments; solo and duo have fixed sizes.
type CreateMatchInput struct {
	CreatorID  uint
	QuizID     uint
	Kind       string
	Category   string
	IsPrivate  bool
	MinPlayers int
	MaxPlayers int
}

const (
	tournamentMinDefault = 4
	tournamentMaxDefault = 10
	tournamentMaxCap     = 32
)

// Create builds a new waiting session with the creator already joined
// and marked ready. Private sessions get an access code at creation; the
// code never changes afterwards.
func (m *MatchService) Create(in CreateMatchInput) (*models.Session, error) {
	if in.QuizID == 0 {
		return nil, fail(ErrInvalidInput, "quiz id is required")
	}
	if in.CreatorID == 0 {
		return nil, fail(ErrInvalidInput, "creator id is required")
	}
	if !models.ValidKind(in.Kind) {
		return nil, fail(ErrInvalidInput, "unknown match kind %q", in.Kind)
	}
	if in.Category == "" {
		in.Category = models.DefaultCategory
	}
	if !models.ValidCategory(in.Category) {
		return nil, fail(ErrInvalidInput, "unknown category %q", in.Category)
	}

	minPlayers, maxPlayers, err := capacityFor(in.Kind, in.MinPlayers, in.MaxPlayers)
	if err != nil {
		return nil, err
	}

	id := uuid.New().String()
	session := &models.Session{
		ID:         id,
		Kind:       in.Kind,
		QuizID:     in.QuizID,
		CreatorID:  in.CreatorID,
		Category:   in.Category,
		IsPrivate:  in.IsPrivate,
		MinPlayers: minPlayers,
		MaxPlayers: maxPlayers,
		Status:     models.StatusWaiting,
		RoomID:     in.Kind + "_" + id,
		Players: []models.SessionPlayer{{
			SessionID: id,
			UserID:    in.CreatorID,
			Status:    models.PlayerReady,
			Score:     0,
			JoinOrder: 0,
		}},
	}
	if in.IsPrivate {
		session.AccessCode = generateAccessCode()
	}

	if err := m.store.Create(session); err != nil {
		return nil, fail(ErrStoreUnavailable, "create session: %v", err)
	}
	return session, nil
}

func capacityFor(kind string, minIn, maxIn int) (int, int, error) {
	switch kind {
	case models.KindSolo:
		return 1, 1, nil
	case models.KindDuo:
		return 2, 2, nil
	default: // tournament
		minPlayers, maxPlayers := minIn, maxIn
		if minPlayers == 0 {
			minPlayers = tournamentMinDefault
		}
		if maxPlayers == 0 {
			maxPlayers = tournamentMaxDefault
		}
		if minPlayers < 2 {
			return 0, 0, fail(ErrInvalidInput, "tournament needs at least 2 players")
		}
		if maxPlayers > tournamentMaxCap {
			return 0, 0, fail(ErrInvalidInput, "tournament capacity cannot exceed %d", tournamentMaxCap)
		}
		if minPlayers > maxPlayers {
			return 0, 0, fail(ErrInvalidInput, "min players %d exceeds max players %d", minPlayers, maxPlayers)
		}
		return minPlayers, maxPlayers, nil
	}
}

// Get returns the current session record.
func (m *MatchService) Get(sessionID string) (*models.Session, error) {
	return m.load(sessionID)
}

// Join adds a player in waiting state. Joining never changes the
// session's lifecycle status.
func (m *MatchService) Join(sessionID string, userID uint, accessCode string) (*models.Session, error) {
	m.locks.lock(sessionID)
	defer m.locks.unlock(sessionID)

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if !CheckAccessCode(session, accessCode) {
		return nil, fail(ErrForbidden, "invalid access code")
	}
	if !CheckCapacity(session) {
		return nil, fail(ErrFull, "match already has %d players", len(session.Players))
	}
	if session.Player(userID) != nil {
		return nil, fail(ErrAlreadyJoined, "user %d is already in this match", userID)
	}

	order := 0
	for i := range session.Players {
		if session.Players[i].JoinOrder >= order {
			order = session.Players[i].JoinOrder + 1
		}
	}
	session.Players = append(session.Players, models.SessionPlayer{
		SessionID: sessionID,
		UserID:    userID,
		Status:    models.PlayerWaiting,
		Score:     0,
		JoinOrder: order,
	})

	if err := m.store.Update(session); err != nil {
		return nil, fail(ErrStoreUnavailable, "join session: %v", err)
	}
	return session, nil
}

// Start moves the session to active. Creator only, needs the minimum
// player count, and only ever leaves the waiting state.
func (m *MatchService) Start(sessionID string, requesterID uint) (*models.Session, error) {
	m.locks.lock(sessionID)
	defer m.locks.unlock(sessionID)

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if !CheckOwnership(session, requesterID) {
		return nil, fail(ErrForbidden, "only the creator can start the match")
	}
	if len(session.Players) < session.MinPlayers {
		return nil, fail(ErrInsufficientPlayers, "need at least %d players to start", session.MinPlayers)
	}
	if session.Status != models.StatusWaiting {
		return nil, fail(ErrInvalidState, "match is %s", session.Status)
	}

	now := time.Now().UTC()
	session.Status = models.StatusActive
	session.StartTime = &now
	for i := range session.Players {
		session.Players[i].Status = models.PlayerPlaying
	}

	if err := m.store.Update(session); err != nil {
		return nil, fail(ErrStoreUnavailable, "start session: %v", err)
	}
	return session, nil
}

// Leave removes a player regardless of lifecycle status. A waiting
// session that empties out is deleted along with its room; deleted
// reports that. Ownership transfers to the earliest remaining joiner if
// the creator leaves a waiting session.
func (m *MatchService) Leave(sessionID string, userID uint) (session *models.Session, deleted bool, err error) {
	m.locks.lock(sessionID)
	defer m.locks.unlock(sessionID)

	session, err = m.load(sessionID)
	if err != nil {
		return nil, false, err
	}

	idx := -1
	for i := range session.Players {
		if session.Players[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx == -1 {
		// Not a participant; leaving is a no-op.
		return session, false, nil
	}

	session.Players = append(session.Players[:idx], session.Players[idx+1:]...)

	if len(session.Players) == 0 && session.Status == models.StatusWaiting {
		if err := m.store.Delete(sessionID); err != nil {
			return nil, false, fail(ErrStoreUnavailable, "delete empty session: %v", err)
		}
		return session, true, nil
	}

	if session.CreatorID == userID && session.Status == models.StatusWaiting && len(session.Players) > 0 {
		// Players are held in join order; the head is the earliest joiner.
		session.CreatorID = session.Players[0].UserID
	}

	if session.Status == models.StatusActive {
		m.maybeFinish(session)
	}

	if err := m.store.Update(session); err != nil {
		return nil, false, fail(ErrStoreUnavailable, "leave session: %v", err)
	}
	return session, false, nil
}

// AnswerResult reports the outcome of one answer submission.
type AnswerResult struct {
	Session         *models.Session `json:"session"`
	QuestionID      uint            `json:"question_id"`
	Answer          int             `json:"answer"`
	IsCorrect       bool            `json:"is_correct"`
	Points          int             `json:"points"`
	PlayerFinished  bool            `json:"player_finished"`
	SessionFinished bool            `json:"session_finished"`
}

// SubmitAnswer scores one answer through the quiz collaborator, appends
// it to the player's history and bumps the score. Answering the quiz's
// last question finishes the player; the session finishes once every
// remaining player is finished.
func (m *MatchService) SubmitAnswer(sessionID string, userID, questionID uint, answerIndex, elapsed int) (*AnswerResult, error) {
	m.locks.lock(sessionID)
	defer m.locks.unlock(sessionID)

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status != models.StatusActive {
		return nil, fail(ErrInvalidState, "match is %s, not active", session.Status)
	}
	player := session.Player(userID)
	if player == nil {
		return nil, fail(ErrNotFound, "user %d is not in this match", userID)
	}
	// One answer per question; resubmissions would double-score and
	// skew the count-based finish check.
	for i := range player.Answers {
		if player.Answers[i].QuestionID == questionID {
			return nil, fail(ErrInvalidInput, "question %d already answered", questionID)
		}
	}

	correctIdx, points, err := m.quizzes.GetCorrectAnswer(session.QuizID, questionID)
	if err != nil {
		return nil, fail(ErrNotFound, "question %d: %v", questionID, err)
	}
	isCorrect := answerIndex == correctIdx
	awarded := 0
	if isCorrect {
		awarded = points
	}

	answer := models.PlayerAnswer{
		PlayerID:   player.ID,
		QuestionID: questionID,
		Answer:     answerIndex,
		IsCorrect:  isCorrect,
		AnswerTime: elapsed,
		Points:     awarded,
	}
	if err := m.store.AppendAnswer(&answer); err != nil {
		return nil, fail(ErrStoreUnavailable, "record answer: %v", err)
	}
	player.Answers = append(player.Answers, answer)
	player.Score += awarded

	total, err := m.quizzes.QuestionCount(session.QuizID)
	if err != nil {
		return nil, fail(ErrNotFound, "quiz %d: %v", session.QuizID, err)
	}
	result := &AnswerResult{
		Session:    session,
		QuestionID: questionID,
		Answer:     answerIndex,
		IsCorrect:  isCorrect,
		Points:     awarded,
	}
	if len(player.Answers) >= total {
		now := time.Now().UTC()
		player.Status = models.PlayerFinished
		player.FinishTime = &now
		result.PlayerFinished = true
	}

	m.maybeFinish(session)
	result.SessionFinished = session.Status == models.StatusFinished

	if err := m.store.Update(session); err != nil {
		return nil, fail(ErrStoreUnavailable, "submit answer: %v", err)
	}
	return result, nil
}

// Delete removes a session permanently. Creator only; a running match
// cannot be deleted. The removed record is returned so callers can
// close its room and clean up kind-specific records.
func (m *MatchService) Delete(sessionID string, requesterID uint) (*models.Session, error) {
	m.locks.lock(sessionID)
	defer m.locks.unlock(sessionID)

	session, err := m.load(sessionID)
	if err != nil {
		return nil, err
	}
	if !CheckOwnership(session, requesterID) {
		return nil, fail(ErrForbidden, "only the creator can delete the match")
	}
	if session.Status == models.StatusActive {
		return nil, fail(ErrInvalidState, "cannot delete a running match")
	}

	if err := m.store.Delete(sessionID); err != nil {
		return nil, fail(ErrStoreUnavailable, "delete session: %v", err)
	}
	return session, nil
}

// PostChat appends one message to the session's chat log. The session
// is returned alongside so callers broadcast to its room, never to a
// caller-named one.
func (m *MatchService) PostChat(sessionID string, userID uint, username, text string) (*models.ChatMessage, *models.Session, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil, fail(ErrInvalidInput, "message text is required")
	}

	m.locks.lock(sessionID)
	defer m.locks.unlock(sessionID)

	session, err := m.load(sessionID)
	if err != nil {
		return nil, nil, err
	}
	msg := &models.ChatMessage{
		SessionID: sessionID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: time.Now().UTC(),
	}
	if err := m.store.AppendMessage(msg); err != nil {
		return nil, nil, fail(ErrStoreUnavailable, "append chat message: %v", err)
	}
	return msg, session, nil
}

// maybeFinish applies the completion rule: an active session becomes
// finished once every remaining player is finished. A session emptied
// out by leaves finishes too; active is never a resting state without
// players. EndTime is set exactly once.
func (m *MatchService) maybeFinish(session *models.Session) {
	if session.Status != models.StatusActive {
		return
	}
	for i := range session.Players {
		if session.Players[i].Status != models.PlayerFinished {
			return
		}
	}
	now := time.Now().UTC()
	session.Status = models.StatusFinished
	session.EndTime = &now
}

func (m *MatchService) load(sessionID string) (*models.Session, error) {
	session, err := m.store.Get(sessionID)
	if err != nil {
		return nil, storeErr(err, fail(ErrNotFound, "session %s", sessionID))
	}
	return session, nil
}

// generateAccessCode returns a short uppercase hex token. Guess
// resistance is all that is asked of it; it is not a secret.
func generateAccessCode() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}
