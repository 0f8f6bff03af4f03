package quiz

import (
	"strings"
	"testing"

	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
)

func TestInviteRoundTrip(t *testing.T) {
	inv := Invite{
		OwnerID:        123456789,
		BattleID:       42,
		RoomID:         "aB3-xyz",
		QuestionCount:  20,
		TimeoutSeconds: 45,
	}

	payload := inv.Encode()
	if payload != "123456789_quiz_42_aB3-xyz_number_20_time_45" {
		t.Fatalf("Encode() = %q", payload)
	}

	got, err := ParseInvite(payload)
	if err != nil {
		t.Fatalf("ParseInvite() error = %v", err)
	}
	if got != inv {
		t.Errorf("ParseInvite() = %+v, want %+v", got, inv)
	}
}

func TestParseInviteMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"empty", ""},
		{"too few fields", "1_quiz_2_room_number_5"},
		{"too many fields", "1_quiz_2_room_number_5_time_30_extra"},
		{"wrong quiz marker", "1_game_2_room_number_5_time_30"},
		{"wrong number marker", "1_quiz_2_room_count_5_time_30"},
		{"wrong time marker", "1_quiz_2_room_number_5_limit_30"},
		{"non-numeric owner", "abc_quiz_2_room_number_5_time_30"},
		{"non-numeric battle", "1_quiz_x_room_number_5_time_30"},
		{"empty room id", "1_quiz_2__number_5_time_30"},
		{"non-numeric count", "1_quiz_2_room_number_x_time_30"},
		{"non-numeric seconds", "1_quiz_2_room_number_5_time_x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseInvite(tt.payload)
			if err == nil {
				t.Fatalf("ParseInvite(%q) error = nil, want malformed-invite error", tt.payload)
			}
			if code := apperrors.Code(err); code != apperrors.ErrCodeInvalidInvite {
				t.Errorf("error code = %q, want %q", code, apperrors.ErrCodeInvalidInvite)
			}
		})
	}
}

func TestNewRoomID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewRoomID()
		if id == "" {
			t.Fatal("NewRoomID() returned empty id")
		}
		if strings.Contains(id, "_") {
			t.Fatalf("NewRoomID() = %q contains an underscore, would break the invite payload", id)
		}
		seen[id] = true
	}
	// 4 random bytes: 100 draws colliding down to a handful would mean
	// the generator is broken, not unlucky.
	if len(seen) < 90 {
		t.Errorf("only %d distinct ids out of 100", len(seen))
	}
}
