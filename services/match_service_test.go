package services

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"quizarena/models"
)

// fakeQuiz is a canned QuizContent: every question is worth the same
// points and shares one correct index.
type fakeQuiz struct {
	total   int
	correct int
	points  int
}

func (f *fakeQuiz) GetCorrectAnswer(quizID, questionID uint) (int, int, error) {
	if questionID == 0 || int(questionID) > f.total {
		return 0, 0, fmt.Errorf("question %d not in quiz %d", questionID, quizID)
	}
	return f.correct, f.points, nil
}

func (f *fakeQuiz) QuestionCount(quizID uint) (int, error) {
	return f.total, nil
}

func newTestMatchService(t *testing.T, questions int) *MatchService {
	t.Helper()
	return NewMatchService(NewMemorySessionStore(), &fakeQuiz{total: questions, correct: 1, points: 10})
}

func mustCreate(t *testing.T, m *MatchService, in CreateMatchInput) *models.Session {
	t.Helper()
	session, err := m.Create(in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return session
}

func TestCreateTournamentDefaults(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})

	if session.MinPlayers != 4 || session.MaxPlayers != 10 {
		t.Errorf("capacity = %d/%d, want 4/10", session.MinPlayers, session.MaxPlayers)
	}
	if session.Status != models.StatusWaiting {
		t.Errorf("status = %q, want %q", session.Status, models.StatusWaiting)
	}
	if session.RoomID != models.KindTournament+"_"+session.ID {
		t.Errorf("room id = %q", session.RoomID)
	}
	if len(session.Players) != 1 {
		t.Fatalf("players = %d, want the creator only", len(session.Players))
	}
	if p := session.Players[0]; p.UserID != 1 || p.Status != models.PlayerReady || p.JoinOrder != 0 {
		t.Errorf("creator player = %+v", p)
	}
	if session.AccessCode != "" {
		t.Errorf("public session got access code %q", session.AccessCode)
	}
	if session.Category != models.DefaultCategory {
		t.Errorf("category = %q, want default", session.Category)
	}
}

func TestCreateFixedCapacities(t *testing.T) {
	m := newTestMatchService(t, 3)

	solo := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindSolo, MinPlayers: 5, MaxPlayers: 5})
	if solo.MinPlayers != 1 || solo.MaxPlayers != 1 {
		t.Errorf("solo capacity = %d/%d, want 1/1", solo.MinPlayers, solo.MaxPlayers)
	}

	duo := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if duo.MinPlayers != 2 || duo.MaxPlayers != 2 {
		t.Errorf("duo capacity = %d/%d, want 2/2", duo.MinPlayers, duo.MaxPlayers)
	}
}

func TestCreateValidation(t *testing.T) {
	m := newTestMatchService(t, 3)

	cases := []struct {
		name string
		in   CreateMatchInput
	}{
		{"missing quiz", CreateMatchInput{CreatorID: 1, Kind: models.KindDuo}},
		{"missing creator", CreateMatchInput{QuizID: 7, Kind: models.KindDuo}},
		{"unknown kind", CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: "battle-royale"}},
		{"unknown category", CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo, Category: "Underwater Basket Weaving"}},
		{"min below 2", CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament, MinPlayers: 1, MaxPlayers: 8}},
		{"max above cap", CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament, MinPlayers: 2, MaxPlayers: 64}},
		{"min above max", CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament, MinPlayers: 8, MaxPlayers: 4}},
	}
	for _, tc := range cases {
		if _, err := m.Create(tc.in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("%s: err = %v, want ErrInvalidInput", tc.name, err)
		}
	}
}

func TestAccessCodeShape(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament, IsPrivate: true})

	if len(session.AccessCode) != 6 {
		t.Fatalf("access code %q, want 6 characters", session.AccessCode)
	}
	for _, r := range session.AccessCode {
		if !((r >= '0' && r <= '9') || (r >= 'A' && r <= 'F')) {
			t.Errorf("access code %q contains %q, want uppercase hex", session.AccessCode, r)
		}
	}
}

func TestJoinPrivateRequiresCode(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament, IsPrivate: true})

	if _, err := m.Join(session.ID, 2, ""); !errors.Is(err, ErrForbidden) {
		t.Errorf("empty code: err = %v, want ErrForbidden", err)
	}
	if _, err := m.Join(session.ID, 2, "ZZZZZZ"); !errors.Is(err, ErrForbidden) {
		t.Errorf("wrong code: err = %v, want ErrForbidden", err)
	}
	if _, err := m.Join(session.ID, 2, session.AccessCode); err != nil {
		t.Errorf("right code: err = %v", err)
	}
}

func TestJoinChecksCodeBeforeCapacity(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo, IsPrivate: true})
	if _, err := m.Join(session.ID, 2, session.AccessCode); err != nil {
		t.Fatalf("fill duo: %v", err)
	}

	// A full private session still rejects the code first.
	if _, err := m.Join(session.ID, 3, "WRONG1"); !errors.Is(err, ErrForbidden) {
		t.Errorf("err = %v, want ErrForbidden before ErrFull", err)
	}
}

func TestJoinFull(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("second player: %v", err)
	}
	if _, err := m.Join(session.ID, 3, ""); !errors.Is(err, ErrFull) {
		t.Errorf("err = %v, want ErrFull", err)
	}
}

func TestJoinTwice(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("first join: %v", err)
	}
	if _, err := m.Join(session.ID, 2, ""); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("err = %v, want ErrAlreadyJoined", err)
	}
	if _, err := m.Join(session.ID, 1, ""); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("creator rejoin: err = %v, want ErrAlreadyJoined", err)
	}
}

func TestJoinUnknownSession(t *testing.T) {
	m := newTestMatchService(t, 3)
	if _, err := m.Join("nope", 2, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestStart(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})

	if _, err := m.Start(session.ID, 1); !errors.Is(err, ErrInsufficientPlayers) {
		t.Errorf("solo start of duo: err = %v, want ErrInsufficientPlayers", err)
	}
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 2); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-creator start: err = %v, want ErrForbidden", err)
	}

	started, err := m.Start(session.ID, 1)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if started.Status != models.StatusActive {
		t.Errorf("status = %q, want %q", started.Status, models.StatusActive)
	}
	if started.StartTime == nil {
		t.Error("start time not set")
	}
	for _, p := range started.Players {
		if p.Status != models.PlayerPlaying {
			t.Errorf("player %d status = %q, want %q", p.UserID, p.Status, models.PlayerPlaying)
		}
	}

	// Starting is a one-way transition out of waiting.
	if _, err := m.Start(session.ID, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("double start: err = %v, want ErrInvalidState", err)
	}
}

func TestLeaveTransfersOwnership(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})
	for _, uid := range []uint{2, 3} {
		if _, err := m.Join(session.ID, uid, ""); err != nil {
			t.Fatalf("join %d: %v", uid, err)
		}
	}

	after, deleted, err := m.Leave(session.ID, 1)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if deleted {
		t.Fatal("session should survive with players left")
	}
	if after.CreatorID != 2 {
		t.Errorf("creator = %d, want earliest remaining joiner 2", after.CreatorID)
	}
	if len(after.Players) != 2 {
		t.Errorf("players = %d, want 2", len(after.Players))
	}

	// The new creator can start once the minimum is met.
	if _, err := m.Join(session.ID, 4, ""); err != nil {
		t.Fatalf("join 4: %v", err)
	}
	if _, err := m.Join(session.ID, 5, ""); err != nil {
		t.Fatalf("join 5: %v", err)
	}
	if _, err := m.Start(session.ID, 2); err != nil {
		t.Errorf("new creator start: %v", err)
	}
}

func TestLeaveLastPlayerDeletesWaitingSession(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})

	_, deleted, err := m.Leave(session.ID, 1)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if !deleted {
		t.Error("empty waiting session should be deleted")
	}
	if _, err := m.Get(session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestLeaveNonParticipant(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})

	after, deleted, err := m.Leave(session.ID, 99)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if deleted || len(after.Players) != 1 {
		t.Errorf("non-participant leave mutated the session: deleted=%v players=%d", deleted, len(after.Players))
	}
}

func TestLeaveDuringActiveCanFinishSession(t *testing.T) {
	m := newTestMatchService(t, 1)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Player 1 answers the only question and is finished.
	res, err := m.SubmitAnswer(session.ID, 1, 1, 1, 3)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !res.PlayerFinished || res.SessionFinished {
		t.Fatalf("result = %+v, want player finished, session still active", res)
	}

	// Player 2 walks away; everyone left is finished, so the match ends.
	after, deleted, err := m.Leave(session.ID, 2)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if deleted {
		t.Fatal("active session must not be deleted on leave")
	}
	if after.Status != models.StatusFinished {
		t.Errorf("status = %q, want %q", after.Status, models.StatusFinished)
	}
	if after.EndTime == nil {
		t.Error("end time not set")
	}

	// Even emptied out, a finished session is never deleted.
	_, deleted, err = m.Leave(session.ID, 1)
	if err != nil {
		t.Fatalf("Leave: %v", err)
	}
	if deleted {
		t.Error("finished session deleted on leave")
	}
	if got, err := m.Get(session.ID); err != nil || got.Status != models.StatusFinished {
		t.Errorf("Get = %v, %v", got, err)
	}
}

func TestLeaveEmptyingActiveSessionFinishesIt(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, deleted, err := m.Leave(session.ID, 2); err != nil || deleted {
		t.Fatalf("first leave: deleted=%v err=%v", deleted, err)
	}

	after, deleted, err := m.Leave(session.ID, 1)
	if err != nil {
		t.Fatalf("last leave: %v", err)
	}
	if deleted {
		t.Fatal("active session deleted on leave")
	}
	// Nobody left to play; active is not a resting state.
	if after.Status != models.StatusFinished {
		t.Errorf("status = %q, want %q", after.Status, models.StatusFinished)
	}
	if after.EndTime == nil {
		t.Error("end time not set")
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.StatusFinished {
		t.Errorf("stored status = %q, want %q", got.Status, models.StatusFinished)
	}
}

func TestSubmitAnswerScoring(t *testing.T) {
	m := newTestMatchService(t, 2)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	correct, err := m.SubmitAnswer(session.ID, 1, 1, 1, 4)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !correct.IsCorrect || correct.Points != 10 {
		t.Errorf("correct answer = %+v", correct)
	}

	wrong, err := m.SubmitAnswer(session.ID, 1, 2, 3, 4)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if wrong.IsCorrect || wrong.Points != 0 {
		t.Errorf("wrong answer = %+v", wrong)
	}
	if !wrong.PlayerFinished {
		t.Error("answering the last question should finish the player")
	}
	if wrong.SessionFinished {
		t.Error("session finished with player 2 still playing")
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p := got.Player(1)
	if p == nil {
		t.Fatal("player 1 missing")
	}
	if p.Score != 10 {
		t.Errorf("score = %d, want 10", p.Score)
	}
	if len(p.Answers) != 2 {
		t.Errorf("answers = %d, want 2", len(p.Answers))
	}
	if p.Status != models.PlayerFinished || p.FinishTime == nil {
		t.Errorf("player = %+v, want finished with finish time", p)
	}
}

func TestSubmitAnswerCompletionRule(t *testing.T) {
	m := newTestMatchService(t, 1)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	first, err := m.SubmitAnswer(session.ID, 1, 1, 1, 2)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if first.SessionFinished {
		t.Error("session finished after first of two players")
	}

	second, err := m.SubmitAnswer(session.ID, 2, 1, 0, 2)
	if err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if !second.SessionFinished {
		t.Error("session should finish once every player is finished")
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != models.StatusFinished || got.EndTime == nil {
		t.Errorf("session = status %q end %v", got.Status, got.EndTime)
	}

	// No answers once the match has finished.
	if _, err := m.SubmitAnswer(session.ID, 1, 1, 1, 2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("post-finish answer: err = %v, want ErrInvalidState", err)
	}
}

func TestSubmitAnswerRejectsResubmission(t *testing.T) {
	m := newTestMatchService(t, 2)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := m.SubmitAnswer(session.ID, 1, 1, 1, 2); err != nil {
		t.Fatalf("SubmitAnswer: %v", err)
	}
	if _, err := m.SubmitAnswer(session.ID, 1, 1, 1, 2); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("resubmission: err = %v, want ErrInvalidInput", err)
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	p := got.Player(1)
	if p.Score != 10 {
		t.Errorf("score = %d, want 10 (no double scoring)", p.Score)
	}
	if len(p.Answers) != 1 {
		t.Errorf("answers = %d, want 1", len(p.Answers))
	}
	// One of two questions answered; the player is still playing.
	if p.Status != models.PlayerPlaying {
		t.Errorf("player status = %q, want %q", p.Status, models.PlayerPlaying)
	}
	if got.Status != models.StatusActive {
		t.Errorf("session status = %q, want %q", got.Status, models.StatusActive)
	}
}

func TestSubmitAnswerGuards(t *testing.T) {
	m := newTestMatchService(t, 2)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})

	if _, err := m.SubmitAnswer(session.ID, 1, 1, 1, 2); !errors.Is(err, ErrInvalidState) {
		t.Errorf("waiting session: err = %v, want ErrInvalidState", err)
	}

	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := m.SubmitAnswer(session.ID, 99, 1, 1, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("non-player: err = %v, want ErrNotFound", err)
	}
	if _, err := m.SubmitAnswer(session.ID, 1, 42, 1, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown question: err = %v, want ErrNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})

	if _, err := m.Delete(session.ID, 2); !errors.Is(err, ErrForbidden) {
		t.Errorf("non-creator delete: err = %v, want ErrForbidden", err)
	}

	removed, err := m.Delete(session.ID, 1)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.RoomID != session.RoomID {
		t.Errorf("room id = %q, want %q", removed.RoomID, session.RoomID)
	}
	if _, err := m.Get(session.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after delete: err = %v, want ErrNotFound", err)
	}
}

func TestDeleteActiveSession(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindDuo})
	if _, err := m.Join(session.ID, 2, ""); err != nil {
		t.Fatalf("join: %v", err)
	}
	if _, err := m.Start(session.ID, 1); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := m.Delete(session.ID, 1); !errors.Is(err, ErrInvalidState) {
		t.Errorf("err = %v, want ErrInvalidState", err)
	}
}

func TestPostChat(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament})

	if _, _, err := m.PostChat(session.ID, 1, "alice", "   "); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("blank message: err = %v, want ErrInvalidInput", err)
	}

	msg, chatSession, err := m.PostChat(session.ID, 1, "alice", "gl hf")
	if err != nil {
		t.Fatalf("PostChat: %v", err)
	}
	if msg.ID == 0 || msg.Timestamp.IsZero() {
		t.Errorf("message = %+v", msg)
	}
	// Broadcast targets come off the returned session, never off
	// caller-supplied room names.
	if chatSession.RoomID != session.RoomID {
		t.Errorf("room id = %q, want %q", chatSession.RoomID, session.RoomID)
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Messages) != 1 || got.Messages[0].Text != "gl hf" {
		t.Errorf("chat log = %+v", got.Messages)
	}
}

func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	m := newTestMatchService(t, 3)
	session := mustCreate(t, m, CreateMatchInput{CreatorID: 1, QuizID: 7, Kind: models.KindTournament, MinPlayers: 2, MaxPlayers: 5})

	const contenders = 20
	var wg sync.WaitGroup
	errs := make(chan error, contenders)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(uid uint) {
			defer wg.Done()
			_, err := m.Join(session.ID, uid, "")
			errs <- err
		}(uint(100 + i))
	}
	wg.Wait()
	close(errs)

	joined, full := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			joined++
		case errors.Is(err, ErrFull):
			full++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if joined != 4 {
		t.Errorf("joined = %d, want 4 (creator holds the fifth seat)", joined)
	}
	if full != contenders-4 {
		t.Errorf("full rejections = %d, want %d", full, contenders-4)
	}

	got, err := m.Get(session.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.Players) != 5 {
		t.Errorf("players = %d, want exactly the capacity", len(got.Players))
	}
	seen := map[int]bool{}
	for _, p := range got.Players {
		if seen[p.JoinOrder] {
			t.Errorf("duplicate join order %d", p.JoinOrder)
		}
		seen[p.JoinOrder] = true
	}
}
