package quiz

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
)

const (
	msgParticipantJoined = "%sga %s qo'shildi"
	msgJoinAccepted      = "Qabul qilindi, %s! Ustoz viktorinani boshlaguncha kuting."
	msgOwnerResults      = "%s ning natijalari:\n%s\n%s foydalanuvchi %d dan %d taga to'g'ri javob berdi."
	btnGetRating         = "Reytingni olish"
)

// Room is one admin-created quiz instance. Participant and result lists
// keep insertion order; the mutex guards them plus the started flag.
type Room struct {
	ID     string
	Config RoomConfig

	mu           sync.Mutex
	started      bool
	participants []*Participant
	sessions     map[int64]*Session
	results      []ResultRecord
}

// addParticipant registers a user under one lock hold so a concurrent
// start cannot slip in between the started check and the insert.
func (r *Room) addParticipant(userID int64, name string) (*Participant, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil, false, apperrors.New(apperrors.ErrCodeAlreadyStarted, "quiz already running")
	}

	for _, p := range r.participants {
		if p.UserID == userID {
			return p, false, nil
		}
	}

	p := &Participant{
		UserID:   userID,
		Name:     name,
		JoinedAt: time.Now(),
	}
	r.participants = append(r.participants, p)
	return p, true, nil
}

func (r *Room) sessionFor(userID int64) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sessions[userID]
}

// AbortSessions force-ends every live session. Called on owner close and
// on TTL eviction.
func (r *Room) AbortSessions() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	for _, s := range sessions {
		s.Abort()
	}
}

// Coordinator manages room lifecycle and fans the session machine out to
// every participant on start. All collaborators are injected; rooms are
// independent and processed in parallel.
type Coordinator struct {
	store      Store
	sched      *Scheduler
	content    ContentStore
	archive    Archive
	msg        Messenger
	joinWindow time.Duration
}

func NewCoordinator(store Store, sched *Scheduler, content ContentStore, archive Archive, msg Messenger, joinWindow time.Duration) *Coordinator {
	return &Coordinator{
		store:      store,
		sched:      sched,
		content:    content,
		archive:    archive,
		msg:        msg,
		joinWindow: joinWindow,
	}
}

// CreateRoom validates the config, mints a collision-checked room id and
// persists the room record for the join-window check.
func (c *Coordinator) CreateRoom(ownerID int64, battleID uint, questionCount, timeoutSeconds int) (*Room, error) {
	if questionCount <= 0 || questionCount > MaxQuestionCount {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig,
			fmt.Sprintf("question count must be in 1..%d", MaxQuestionCount))
	}
	if timeoutSeconds <= 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidConfig, "time limit must be positive")
	}

	var id string
	for attempt := 0; attempt < 5; attempt++ {
		id = NewRoomID()
		if id == "" {
			continue
		}
		if _, taken := c.store.Get(id); !taken {
			break
		}
		id = ""
	}
	if id == "" {
		return nil, apperrors.New(apperrors.ErrCodeInternalError, "could not mint room id")
	}

	room := &Room{
		ID: id,
		Config: RoomConfig{
			OwnerID:       ownerID,
			BattleID:      battleID,
			QuestionCount: questionCount,
			Timeout:       time.Duration(timeoutSeconds) * time.Second,
			CreatedAt:     time.Now(),
		},
		sessions: make(map[int64]*Session),
	}

	if err := c.archive.SaveRoom(room.ID, room.Config); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to persist room")
	}

	c.store.Put(room)
	logger.Info("Quiz room created",
		"room_id", room.ID, "owner_id", ownerID, "battle_id", battleID,
		"questions", questionCount, "time_limit_s", timeoutSeconds)

	return room, nil
}

// Join adds a participant. Joining twice with the same user id returns
// the existing participant; joining past the 30-minute window fails with
// RoomExpired.
func (c *Coordinator) Join(roomID string, userID int64, name string) (*Participant, error) {
	room, exists := c.store.Get(roomID)
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeRoomNotFound, "room not found")
	}

	if time.Since(room.Config.CreatedAt) > c.joinWindow {
		return nil, apperrors.New(apperrors.ErrCodeRoomExpired, "invite link expired")
	}

	p, added, err := room.addParticipant(userID, name)
	if err != nil {
		return nil, err
	}
	c.store.Touch(roomID)

	if added {
		c.msg.SendMessage(room.Config.OwnerID, fmt.Sprintf(msgParticipantJoined, room.ID, p.Name), nil)
		c.msg.SendMessage(userID, fmt.Sprintf(msgJoinAccepted, p.Name), nil)
	}

	return p, nil
}

// Start fans the session machine out to every participant. Each gets an
// independently shuffled question subset; a pool smaller than the
// configured count is used in full. Safe to invoke exactly once.
func (c *Coordinator) Start(roomID string, initiatorID int64) (int, error) {
	room, exists := c.store.Get(roomID)
	if !exists {
		return 0, apperrors.New(apperrors.ErrCodeRoomNotFound, "room not found")
	}
	if initiatorID != room.Config.OwnerID {
		return 0, apperrors.New(apperrors.ErrCodeUnauthorized, "only the room owner can start the quiz")
	}

	pool, err := c.content.QuestionsByBattle(room.Config.BattleID)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrCodeInternalError, "failed to load questions")
	}
	if len(pool) == 0 {
		return 0, apperrors.New(apperrors.ErrCodeNotFound, "battle has no questions")
	}

	room.mu.Lock()
	if room.started {
		room.mu.Unlock()
		return 0, apperrors.New(apperrors.ErrCodeAlreadyStarted, "quiz already started")
	}
	if len(room.participants) == 0 {
		room.mu.Unlock()
		return 0, apperrors.New(apperrors.ErrCodeNoParticipants, "nobody joined the room")
	}

	room.started = true
	sessions := make([]*Session, 0, len(room.participants))
	for _, p := range room.participants {
		s := newSession(c, room, p, drawQuestions(pool, room.Config.QuestionCount))
		room.sessions[p.UserID] = s
		sessions = append(sessions, s)
	}
	count := len(sessions)
	room.mu.Unlock()

	c.store.Touch(roomID)

	for _, s := range sessions {
		go func(s *Session) {
			defer func() {
				if r := recover(); r != nil {
					logger.Error("Panic in quiz session", "error", r, "room_id", roomID, "user_id", s.userID)
				}
			}()
			s.Begin()
		}(s)
	}

	logger.Info("Quiz room started", "room_id", roomID, "participants", count)
	return count, nil
}

// StartSolo creates a single-participant room for the user and starts
// it immediately, skipping the invite and join steps. The player owns
// the room, so the breakdown and the leaderboard button come back to
// them when they finish.
func (c *Coordinator) StartSolo(userID int64, name string, battleID uint, questionCount, timeoutSeconds int) (*Room, error) {
	room, err := c.CreateRoom(userID, battleID, questionCount, timeoutSeconds)
	if err != nil {
		return nil, err
	}

	if _, _, err := room.addParticipant(userID, name); err != nil {
		c.store.Delete(room.ID)
		return nil, err
	}

	if _, err := c.Start(room.ID, userID); err != nil {
		c.store.Delete(room.ID)
		return nil, err
	}

	logger.Info("Solo quiz started", "room_id", room.ID, "user_id", userID)
	return room, nil
}

// SubmitAnswer routes a participant's chat message to their live
// session. Returns false when no session is awaiting an answer.
func (c *Coordinator) SubmitAnswer(roomID string, userID int64, text string) bool {
	room, exists := c.store.Get(roomID)
	if !exists {
		return false
	}

	session := room.sessionFor(userID)
	if session == nil {
		return false
	}

	handled := session.Submit(text)
	if handled {
		c.store.Touch(roomID)
	}
	return handled
}

// EndRoom closes a room on the owner's request, aborting every live
// session without emitting further questions.
func (c *Coordinator) EndRoom(roomID string, initiatorID int64) error {
	room, exists := c.store.Get(roomID)
	if !exists {
		return apperrors.New(apperrors.ErrCodeRoomNotFound, "room not found")
	}
	if initiatorID != room.Config.OwnerID {
		return apperrors.New(apperrors.ErrCodeUnauthorized, "only the room owner can close the room")
	}

	room.AbortSessions()
	c.store.Delete(roomID)
	logger.Info("Quiz room closed", "room_id", roomID)
	return nil
}

// recordResult appends exactly one terminal score per participant and
// notifies the owner with the breakdown and a leaderboard button.
// Notification failure never blocks persistence.
func (c *Coordinator) recordResult(room *Room, rec ResultRecord, breakdown string) {
	room.mu.Lock()
	room.results = append(room.results, rec)
	room.mu.Unlock()

	if err := c.archive.SaveResult(rec); err != nil {
		logger.Error("Failed to archive quiz result", "error", err, "room_id", rec.RoomID, "user_id", rec.UserID)
	}

	total := rec.Correct + rec.Incorrect
	text := fmt.Sprintf(msgOwnerResults, rec.Name, breakdown, rec.Name, total, rec.Correct)
	c.msg.SendMessage(room.Config.OwnerID, text, RatingKeyboard(room.ID))

	c.store.Touch(room.ID)
}

// Ranking returns the room's results sorted by correct count descending,
// stable on ties (insertion order preserved among equal scores).
func (c *Coordinator) Ranking(roomID string) ([]ResultRecord, error) {
	room, exists := c.store.Get(roomID)
	if !exists {
		return nil, apperrors.New(apperrors.ErrCodeRoomNotFound, "room not found")
	}

	room.mu.Lock()
	recs := make([]ResultRecord, len(room.results))
	copy(recs, room.results)
	room.mu.Unlock()

	if len(recs) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeNoResults, "no participant has finished yet")
	}

	Rank(recs)
	return recs, nil
}

// RatingKeyboard is the inline "view leaderboard" action attached to
// every result notification.
func RatingKeyboard(roomID string) interface{} {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnGetRating, "rating_"+roomID),
		),
	)
}

// drawQuestions copies and shuffles the pool, truncated to count. Each
// participant draws independently, so question order differs per person.
func drawQuestions(pool []Question, count int) []Question {
	drawn := make([]Question, len(pool))
	copy(drawn, pool)
	rand.Shuffle(len(drawn), func(i, j int) {
		drawn[i], drawn[j] = drawn[j], drawn[i]
	})
	if count < len(drawn) {
		drawn = drawn[:count]
	}
	return drawn
}
