package quiz

import (
	"fmt"
	"strings"
	"sync"

	"github.com/wisdomlc/quiz_bot/pkg/utils"
)

const (
	msgQuizIntro     = "Savollarga javob bering. Har bir savol uchun %d soniya vaqt beriladi."
	msgQuestion      = "%d/%d\n<b>Savol:</b> %s"
	msgAnswerCorrect = "Javobingiz to'g'ri!"
	msgAnswerWrong   = "Javobingiz noto'g'ri! To'g'ri javob: %s"
	msgTimeUp        = "Vaqt tugadi! Siz javob bermadingiz."
	msgQuizFinished  = "Savollar tugadi. Natijalar ustozga jo'natildi."
	msgRoomClosed    = "Xona yopildi. Viktorina to'xtatildi."
)

// Session drives one participant through their question sequence.
//
// The mutex serializes answer submission against timer wakeups, so the
// "is this still the active question" check and the "append answer,
// advance index" mutation happen as one atomic step. Invariant:
// len(answers) == index at every release of the lock.
type Session struct {
	mu sync.Mutex

	coord  *Coordinator
	room   *Room
	userID int64
	name   string

	questions []Question
	index     int
	answers   []bool

	awaiting    bool
	ended       bool
	activeToken string
	timer       *TimerHandle
}

func newSession(coord *Coordinator, room *Room, p *Participant, questions []Question) *Session {
	return &Session{
		coord:     coord,
		room:      room,
		userID:    p.UserID,
		name:      p.Name,
		questions: questions,
	}
}

// Begin sends the intro and the first question. Called once, from the
// coordinator's start fan-out.
func (s *Session) Begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}

	seconds := int(s.room.Config.Timeout.Seconds())
	s.coord.msg.SendMessage(s.userID, fmt.Sprintf(msgQuizIntro, seconds), nil)
	s.sendQuestionLocked()
}

// Submit processes the participant's next chat message as an answer.
// Returns false when the session is not awaiting one (already ended, or
// a timeout just consumed the question).
func (s *Session) Submit(text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended || !s.awaiting {
		return false
	}

	question := s.questions[s.index]
	correct := utils.NormalizeAnswer(text) == utils.NormalizeAnswer(question.Answer)

	s.awaiting = false
	s.activeToken = ""
	s.timer.Stop()
	s.answers = append(s.answers, correct)
	s.index++

	if correct {
		s.coord.msg.SendMessage(s.userID, msgAnswerCorrect, nil)
	} else {
		s.coord.msg.SendMessage(s.userID, fmt.Sprintf(msgAnswerWrong, question.Answer), nil)
	}

	s.sendQuestionLocked()
	return true
}

// onTimeout is the deadline callback. The token guards against the race
// where an answer arrived and the next question's timer was already
// scheduled by the time this one woke up: a stale token is a no-op, so
// firing can never double-append.
func (s *Session) onTimeout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended || !s.awaiting || token != s.activeToken {
		return
	}

	s.awaiting = false
	s.activeToken = ""
	s.answers = append(s.answers, false)
	s.index++

	s.coord.msg.SendMessage(s.userID, msgTimeUp, nil)
	s.sendQuestionLocked()
}

// sendQuestionLocked emits question index+1 and arms its deadline, or
// finishes the session when the sequence is exhausted. Caller holds mu.
func (s *Session) sendQuestionLocked() {
	if s.index >= len(s.questions) {
		s.finishLocked()
		return
	}

	question := s.questions[s.index]
	s.coord.msg.SendMessage(s.userID,
		fmt.Sprintf(msgQuestion, s.index+1, len(s.questions), question.Prompt), nil)

	token := utils.GenerateRandomID(12)
	s.activeToken = token
	s.awaiting = true
	s.timer = s.coord.sched.Schedule(s.room.Config.Timeout, func() {
		s.onTimeout(token)
	})
}

// finishLocked is the single transition into Ended. Caller holds mu.
func (s *Session) finishLocked() {
	s.ended = true
	s.awaiting = false
	s.activeToken = ""
	s.timer.Stop()

	correct := 0
	for _, ok := range s.answers {
		if ok {
			correct++
		}
	}

	rec := ResultRecord{
		RoomID:    s.room.ID,
		UserID:    s.userID,
		Name:      s.name,
		Correct:   correct,
		Incorrect: len(s.answers) - correct,
	}

	s.coord.recordResult(s.room, rec, s.breakdownLocked())
	s.coord.msg.SendMessage(s.userID, msgQuizFinished, nil)
}

// breakdownLocked renders the per-question ✅/❌ report for the owner.
func (s *Session) breakdownLocked() string {
	var b strings.Builder
	for i, ok := range s.answers {
		mark := "❌"
		if ok {
			mark = "✅"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, mark)
	}
	return b.String()
}

// Abort moves a live session straight to Ended without emitting further
// questions and without recording a result. Used when the room is closed
// by its owner or evicted by TTL.
func (s *Session) Abort() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ended {
		return
	}

	s.ended = true
	s.awaiting = false
	s.activeToken = ""
	s.timer.Stop()

	s.coord.msg.SendMessage(s.userID, msgRoomClosed, nil)
}

// Ended reports whether the session reached its terminal state.
func (s *Session) Ended() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ended
}
