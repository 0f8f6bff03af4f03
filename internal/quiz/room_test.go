package quiz

import (
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
	"github.com/wisdomlc/quiz_bot/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type sentMessage struct {
	chatID int64
	text   string
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (f *fakeMessenger) SendMessage(chatID int64, text string, keyboard interface{}) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return len(f.sent)
}

func (f *fakeMessenger) textsTo(chatID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var texts []string
	for _, m := range f.sent {
		if m.chatID == chatID {
			texts = append(texts, m.text)
		}
	}
	return texts
}

type fakeContent struct {
	questions []Question
	err       error
}

func (f *fakeContent) QuestionsByBattle(battleID uint) ([]Question, error) {
	return f.questions, f.err
}

type fakeArchive struct {
	mu      sync.Mutex
	rooms   []string
	results []ResultRecord
}

func (f *fakeArchive) SaveRoom(id string, cfg RoomConfig) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rooms = append(f.rooms, id)
	return nil
}

func (f *fakeArchive) SaveResult(rec ResultRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results = append(f.results, rec)
	return nil
}

func (f *fakeArchive) savedResults() []ResultRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := make([]ResultRecord, len(f.results))
	copy(recs, f.results)
	return recs
}

type testRig struct {
	coord   *Coordinator
	store   *MemoryStore
	msg     *fakeMessenger
	archive *fakeArchive
}

func newTestRig(t *testing.T, questions []Question) *testRig {
	t.Helper()

	store := NewMemoryStore(time.Hour)
	t.Cleanup(store.Close)

	msg := &fakeMessenger{}
	archive := &fakeArchive{}
	coord := NewCoordinator(store, NewScheduler(), &fakeContent{questions: questions}, archive, msg, 30*time.Minute)

	return &testRig{coord: coord, store: store, msg: msg, archive: archive}
}

// lastQuestion extracts the prompt of the most recent question sent to
// the participant. Question order is shuffled per participant, so tests
// answer what was actually asked.
func (r *testRig) lastQuestion(chatID int64) (string, bool) {
	texts := r.msg.textsTo(chatID)
	for i := len(texts) - 1; i >= 0; i-- {
		if idx := strings.Index(texts[i], "<b>Savol:</b> "); idx >= 0 {
			return texts[i][idx+len("<b>Savol:</b> "):], true
		}
	}
	return "", false
}

// submitEventually retries until the session is awaiting an answer.
// Sessions begin on goroutines, so the first question may not have been
// delivered yet when the test submits; an empty answer means "question
// not visible yet", never a submission.
func (r *testRig) submitEventually(t *testing.T, roomID string, userID int64, answer func() string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if text := answer(); text != "" && r.coord.SubmitAnswer(roomID, userID, text) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("session never accepted an answer for user %d", userID)
}

func (r *testRig) waitForResults(t *testing.T, roomID string, want int) []ResultRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		recs, err := r.coord.Ranking(roomID)
		if err == nil && len(recs) >= want {
			return recs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never produced %d results", roomID, want)
	return nil
}

func TestCreateRoomValidation(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		seconds  int
		wantCode string
	}{
		{"zero questions", 0, 30, apperrors.ErrCodeInvalidConfig},
		{"negative questions", -5, 30, apperrors.ErrCodeInvalidConfig},
		{"over cap", MaxQuestionCount + 1, 30, apperrors.ErrCodeInvalidConfig},
		{"zero time limit", 10, 0, apperrors.ErrCodeInvalidConfig},
		{"negative time limit", 10, -1, apperrors.ErrCodeInvalidConfig},
		{"valid", 10, 30, ""},
		{"at cap", MaxQuestionCount, 1, ""},
	}

	rig := newTestRig(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			room, err := rig.coord.CreateRoom(100, 1, tt.count, tt.seconds)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("CreateRoom() error = %v, want nil", err)
				}
				if room.ID == "" {
					t.Error("CreateRoom() returned empty room id")
				}
				return
			}
			if err == nil {
				t.Fatal("CreateRoom() error = nil, want validation error")
			}
			if code := apperrors.Code(err); code != tt.wantCode {
				t.Errorf("error code = %q, want %q", code, tt.wantCode)
			}
		})
	}
}

func TestCreateRoomArchivesRecord(t *testing.T) {
	rig := newTestRig(t, nil)

	room, err := rig.coord.CreateRoom(100, 1, 5, 30)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	rig.archive.mu.Lock()
	defer rig.archive.mu.Unlock()
	if len(rig.archive.rooms) != 1 || rig.archive.rooms[0] != room.ID {
		t.Errorf("archived rooms = %v, want [%s]", rig.archive.rooms, room.ID)
	}
}

func TestJoinUnknownRoom(t *testing.T) {
	rig := newTestRig(t, nil)

	_, err := rig.coord.Join("nope", 200, "Ali")
	if code := apperrors.Code(err); code != apperrors.ErrCodeRoomNotFound {
		t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeRoomNotFound)
	}
}

func TestJoinExpiredWindow(t *testing.T) {
	rig := newTestRig(t, nil)

	room, err := rig.coord.CreateRoom(100, 1, 5, 30)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}
	room.Config.CreatedAt = time.Now().Add(-time.Hour)

	_, err = rig.coord.Join(room.ID, 200, "Ali")
	if code := apperrors.Code(err); code != apperrors.ErrCodeRoomExpired {
		t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeRoomExpired)
	}
}

func TestJoinIdempotent(t *testing.T) {
	rig := newTestRig(t, nil)

	room, err := rig.coord.CreateRoom(100, 1, 5, 30)
	if err != nil {
		t.Fatalf("CreateRoom() error = %v", err)
	}

	first, err := rig.coord.Join(room.ID, 200, "Ali")
	if err != nil {
		t.Fatalf("first Join() error = %v", err)
	}
	second, err := rig.coord.Join(room.ID, 200, "Ali again")
	if err != nil {
		t.Fatalf("second Join() error = %v", err)
	}
	if first != second {
		t.Error("joining twice created a second participant")
	}

	room.mu.Lock()
	count := len(room.participants)
	room.mu.Unlock()
	if count != 1 {
		t.Errorf("participant count = %d, want 1", count)
	}
}

func TestJoinNotifiesOwnerAndParticipant(t *testing.T) {
	rig := newTestRig(t, nil)

	room, _ := rig.coord.CreateRoom(100, 1, 5, 30)
	if _, err := rig.coord.Join(room.ID, 200, "Ali"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}

	ownerTexts := rig.msg.textsTo(100)
	if len(ownerTexts) != 1 || !strings.Contains(ownerTexts[0], "Ali") {
		t.Errorf("owner notification = %v, want one message naming the participant", ownerTexts)
	}
	if texts := rig.msg.textsTo(200); len(texts) != 1 {
		t.Errorf("participant ack = %v, want exactly one message", texts)
	}
}

func TestJoinAfterStart(t *testing.T) {
	rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})

	room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
	if _, err := rig.coord.Join(room.ID, 200, "Ali"); err != nil {
		t.Fatalf("Join() error = %v", err)
	}
	if _, err := rig.coord.Start(room.ID, 100); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	_, err := rig.coord.Join(room.ID, 300, "Vali")
	if code := apperrors.Code(err); code != apperrors.ErrCodeAlreadyStarted {
		t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeAlreadyStarted)
	}
}

func TestStartErrors(t *testing.T) {
	t.Run("not owner", func(t *testing.T) {
		rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})
		room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
		rig.coord.Join(room.ID, 200, "Ali")

		_, err := rig.coord.Start(room.ID, 999)
		if code := apperrors.Code(err); code != apperrors.ErrCodeUnauthorized {
			t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeUnauthorized)
		}
	})

	t.Run("no participants", func(t *testing.T) {
		rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})
		room, _ := rig.coord.CreateRoom(100, 1, 1, 30)

		_, err := rig.coord.Start(room.ID, 100)
		if code := apperrors.Code(err); code != apperrors.ErrCodeNoParticipants {
			t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeNoParticipants)
		}
	})

	t.Run("empty pool", func(t *testing.T) {
		rig := newTestRig(t, nil)
		room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
		rig.coord.Join(room.ID, 200, "Ali")

		_, err := rig.coord.Start(room.ID, 100)
		if code := apperrors.Code(err); code != apperrors.ErrCodeNotFound {
			t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeNotFound)
		}
	})

	t.Run("already started", func(t *testing.T) {
		rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})
		room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
		rig.coord.Join(room.ID, 200, "Ali")

		if _, err := rig.coord.Start(room.ID, 100); err != nil {
			t.Fatalf("first Start() error = %v", err)
		}
		_, err := rig.coord.Start(room.ID, 100)
		if code := apperrors.Code(err); code != apperrors.ErrCodeAlreadyStarted {
			t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeAlreadyStarted)
		}
	})
}

func TestQuizRoundTripAllCorrect(t *testing.T) {
	answers := map[string]string{"apple": "olma", "book": "kitob", "water": "suv"}
	pool := []Question{
		{Prompt: "apple", Answer: "olma"},
		{Prompt: "book", Answer: "kitob"},
		{Prompt: "water", Answer: "suv"},
	}
	rig := newTestRig(t, pool)

	room, _ := rig.coord.CreateRoom(100, 1, 3, 30)
	rig.coord.Join(room.ID, 200, "Ali")

	count, err := rig.coord.Start(room.ID, 100)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if count != 1 {
		t.Fatalf("Start() launched %d sessions, want 1", count)
	}

	for i := 0; i < 3; i++ {
		rig.submitEventually(t, room.ID, 200, func() string {
			prompt, ok := rig.lastQuestion(200)
			if !ok {
				return ""
			}
			// Answers match after trimming and lowercasing.
			return "  " + strings.ToUpper(answers[prompt]) + " "
		})
	}

	recs := rig.waitForResults(t, room.ID, 1)
	rec := recs[0]
	if rec.Correct != 3 || rec.Incorrect != 0 {
		t.Errorf("result = %d correct / %d incorrect, want 3/0", rec.Correct, rec.Incorrect)
	}
	if rec.UserID != 200 || rec.Name != "Ali" {
		t.Errorf("result identity = (%d, %q), want (200, Ali)", rec.UserID, rec.Name)
	}

	saved := rig.archive.savedResults()
	if len(saved) != 1 || saved[0].Correct != 3 {
		t.Errorf("archived results = %v, want one record with 3 correct", saved)
	}

	ownerTexts := rig.msg.textsTo(100)
	var gotBreakdown bool
	for _, txt := range ownerTexts {
		if strings.Contains(txt, "✅") && strings.Contains(txt, "Ali") {
			gotBreakdown = true
		}
	}
	if !gotBreakdown {
		t.Error("owner never received the per-question breakdown")
	}
}

func TestTimeoutAutoFail(t *testing.T) {
	rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})

	room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
	room.Config.Timeout = 20 * time.Millisecond
	rig.coord.Join(room.ID, 200, "Ali")

	if _, err := rig.coord.Start(room.ID, 100); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	recs := rig.waitForResults(t, room.ID, 1)
	if recs[0].Correct != 0 || recs[0].Incorrect != 1 {
		t.Errorf("result = %d correct / %d incorrect, want 0/1", recs[0].Correct, recs[0].Incorrect)
	}

	var gotTimeUp bool
	for _, txt := range rig.msg.textsTo(200) {
		if txt == msgTimeUp {
			gotTimeUp = true
		}
	}
	if !gotTimeUp {
		t.Error("participant never received the time-up notice")
	}
}

func TestStaleTimerIsNoOp(t *testing.T) {
	rig := newTestRig(t, []Question{
		{Prompt: "apple", Answer: "olma"},
		{Prompt: "book", Answer: "kitob"},
	})

	room, _ := rig.coord.CreateRoom(100, 1, 2, 30)
	rig.coord.Join(room.ID, 200, "Ali")
	if _, err := rig.coord.Start(room.ID, 100); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	rig.submitEventually(t, room.ID, 200, func() string { return "wrong" })

	room.mu.Lock()
	session := room.sessions[200]
	room.mu.Unlock()

	// A deadline that raced with the answer wakes up holding the old
	// token and must not touch the new question.
	session.onTimeout("stale-token")

	session.mu.Lock()
	got := len(session.answers)
	session.mu.Unlock()
	if got != 1 {
		t.Errorf("answers after stale timeout = %d, want 1", got)
	}
}

func TestMixedAnswersOneRecord(t *testing.T) {
	answers := map[string]string{"apple": "olma", "book": "kitob", "water": "suv"}
	pool := []Question{
		{Prompt: "apple", Answer: "olma"},
		{Prompt: "book", Answer: "kitob"},
		{Prompt: "water", Answer: "suv"},
	}
	rig := newTestRig(t, pool)

	room, _ := rig.coord.CreateRoom(100, 1, 3, 30)
	room.Config.Timeout = 300 * time.Millisecond
	rig.coord.Join(room.ID, 200, "Ali")
	if _, err := rig.coord.Start(room.ID, 100); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// Correct, then wrong, then let the last question time out.
	rig.submitEventually(t, room.ID, 200, func() string {
		prompt, ok := rig.lastQuestion(200)
		if !ok {
			return ""
		}
		return answers[prompt]
	})
	rig.submitEventually(t, room.ID, 200, func() string { return "definitely wrong" })

	recs := rig.waitForResults(t, room.ID, 1)
	if recs[0].Correct != 1 || recs[0].Incorrect != 2 {
		t.Errorf("result = %d correct / %d incorrect, want 1/2", recs[0].Correct, recs[0].Incorrect)
	}
	if len(rig.archive.savedResults()) != 1 {
		t.Errorf("archived %d results, want exactly 1", len(rig.archive.savedResults()))
	}
}

func TestSubmitAfterEnd(t *testing.T) {
	rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})

	room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
	rig.coord.Join(room.ID, 200, "Ali")
	rig.coord.Start(room.ID, 100)

	rig.submitEventually(t, room.ID, 200, func() string { return "olma" })
	rig.waitForResults(t, room.ID, 1)

	if rig.coord.SubmitAnswer(room.ID, 200, "olma") {
		t.Error("SubmitAnswer() accepted input after the session ended")
	}
}

func TestEndRoomAbortsSessions(t *testing.T) {
	rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})

	room, _ := rig.coord.CreateRoom(100, 1, 1, 30)
	rig.coord.Join(room.ID, 200, "Ali")
	if _, err := rig.coord.Start(room.ID, 100); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	if err := rig.coord.EndRoom(room.ID, 999); apperrors.Code(err) != apperrors.ErrCodeUnauthorized {
		t.Errorf("non-owner close error code = %q, want %q", apperrors.Code(err), apperrors.ErrCodeUnauthorized)
	}
	if err := rig.coord.EndRoom(room.ID, 100); err != nil {
		t.Fatalf("EndRoom() error = %v", err)
	}

	if _, exists := rig.store.Get(room.ID); exists {
		t.Error("room still in store after EndRoom")
	}
	if len(rig.archive.savedResults()) != 0 {
		t.Error("aborted session recorded a result")
	}

	var gotClosed bool
	for _, txt := range rig.msg.textsTo(200) {
		if txt == msgRoomClosed {
			gotClosed = true
		}
	}
	if !gotClosed {
		t.Error("participant never notified that the room closed")
	}
}

func TestSmallPoolUsedInFull(t *testing.T) {
	rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})

	room, _ := rig.coord.CreateRoom(100, 1, 50, 30)
	rig.coord.Join(room.ID, 200, "Ali")
	rig.coord.Start(room.ID, 100)

	rig.submitEventually(t, room.ID, 200, func() string { return "olma" })

	recs := rig.waitForResults(t, room.ID, 1)
	if total := recs[0].Correct + recs[0].Incorrect; total != 1 {
		t.Errorf("answered %d questions, want 1 (pool smaller than configured count)", total)
	}
}

func TestSoloQuizRoundTrip(t *testing.T) {
	answers := map[string]string{"apple": "olma", "book": "kitob"}
	pool := []Question{
		{Prompt: "apple", Answer: "olma"},
		{Prompt: "book", Answer: "kitob"},
	}
	rig := newTestRig(t, pool)

	room, err := rig.coord.StartSolo(200, "Ali", 1, 2, 30)
	if err != nil {
		t.Fatalf("StartSolo() error = %v", err)
	}

	// No join step, so the first message the player sees is a question.
	for i := 0; i < 2; i++ {
		rig.submitEventually(t, room.ID, 200, func() string {
			prompt, ok := rig.lastQuestion(200)
			if !ok {
				return ""
			}
			return answers[prompt]
		})
	}

	recs := rig.waitForResults(t, room.ID, 1)
	if recs[0].Correct != 2 || recs[0].Incorrect != 0 {
		t.Errorf("result = %d correct / %d incorrect, want 2/0", recs[0].Correct, recs[0].Incorrect)
	}
	if recs[0].UserID != 200 || recs[0].Name != "Ali" {
		t.Errorf("result identity = (%d, %q), want (200, Ali)", recs[0].UserID, recs[0].Name)
	}

	// The player owns the room, so the breakdown comes back to them.
	var gotBreakdown bool
	for _, txt := range rig.msg.textsTo(200) {
		if strings.Contains(txt, "✅") && strings.Contains(txt, "Ali") {
			gotBreakdown = true
		}
	}
	if !gotBreakdown {
		t.Error("player never received their own breakdown")
	}

	if len(rig.archive.savedResults()) != 1 {
		t.Errorf("archived %d results, want exactly 1", len(rig.archive.savedResults()))
	}
}

func TestSoloQuizEmptyPool(t *testing.T) {
	rig := newTestRig(t, nil)

	room, err := rig.coord.StartSolo(200, "Ali", 1, 2, 30)
	if code := apperrors.Code(err); code != apperrors.ErrCodeNotFound {
		t.Fatalf("error code = %q, want %q", code, apperrors.ErrCodeNotFound)
	}
	if room != nil {
		t.Error("StartSolo() returned a room alongside an error")
	}

	// A failed solo start must not leave a half-built room joinable.
	rig.store.mu.Lock()
	live := len(rig.store.rooms)
	rig.store.mu.Unlock()
	if live != 0 {
		t.Errorf("store holds %d rooms after failed solo start, want 0", live)
	}
}

func TestSoloQuizBadConfig(t *testing.T) {
	rig := newTestRig(t, []Question{{Prompt: "apple", Answer: "olma"}})

	_, err := rig.coord.StartSolo(200, "Ali", 1, 0, 30)
	if code := apperrors.Code(err); code != apperrors.ErrCodeInvalidConfig {
		t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeInvalidConfig)
	}
}

func TestConcurrentRooms(t *testing.T) {
	pool := []Question{{Prompt: "apple", Answer: "olma"}}
	rig := newTestRig(t, pool)

	roomA, _ := rig.coord.CreateRoom(100, 1, 1, 30)
	roomB, _ := rig.coord.CreateRoom(101, 1, 1, 30)
	rig.coord.Join(roomA.ID, 200, "Ali")
	rig.coord.Join(roomB.ID, 300, "Vali")

	if _, err := rig.coord.Start(roomA.ID, 100); err != nil {
		t.Fatalf("Start(roomA) error = %v", err)
	}
	if _, err := rig.coord.Start(roomB.ID, 101); err != nil {
		t.Fatalf("Start(roomB) error = %v", err)
	}

	rig.submitEventually(t, roomA.ID, 200, func() string { return "olma" })
	rig.submitEventually(t, roomB.ID, 300, func() string { return "wrong" })

	recsA := rig.waitForResults(t, roomA.ID, 1)
	recsB := rig.waitForResults(t, roomB.ID, 1)

	if recsA[0].Correct != 1 {
		t.Errorf("room A result = %+v, want 1 correct", recsA[0])
	}
	if recsB[0].Correct != 0 {
		t.Errorf("room B result = %+v, want 0 correct", recsB[0])
	}
}
