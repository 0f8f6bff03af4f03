package quiz

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/wisdomlc/quiz_bot/pkg/errors"
)

// NewRoomID mints a short opaque room token: 4 random bytes,
// base64url-encoded. Underscores are swapped for dashes because the
// invite payload is underscore-delimited.
func NewRoomID() string {
	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return ""
	}
	id := base64.RawURLEncoding.EncodeToString(buf)
	return strings.ReplaceAll(id, "_", "-")
}

// Invite is the decoded deep-link payload used to join a room.
type Invite struct {
	OwnerID        int64
	BattleID       uint
	RoomID         string
	QuestionCount  int
	TimeoutSeconds int
}

// Encode renders the positional start payload:
// {owner}_quiz_{battle}_{room}_number_{count}_time_{seconds}
func (inv Invite) Encode() string {
	return fmt.Sprintf("%d_quiz_%d_%s_number_%d_time_%d",
		inv.OwnerID, inv.BattleID, inv.RoomID, inv.QuestionCount, inv.TimeoutSeconds)
}

// ParseInvite decodes a start payload. It is called exactly once at the
// gateway boundary; everything downstream works with the typed Invite.
func ParseInvite(payload string) (Invite, error) {
	parts := strings.Split(payload, "_")
	if len(parts) != 8 || parts[1] != "quiz" || parts[4] != "number" || parts[6] != "time" {
		return Invite{}, apperrors.New(apperrors.ErrCodeInvalidInvite, "malformed invite payload")
	}

	ownerID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Invite{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidInvite, "bad owner id")
	}
	battleID, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		return Invite{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidInvite, "bad battle id")
	}
	if parts[3] == "" {
		return Invite{}, apperrors.New(apperrors.ErrCodeInvalidInvite, "empty room id")
	}
	count, err := strconv.Atoi(parts[5])
	if err != nil {
		return Invite{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidInvite, "bad question count")
	}
	seconds, err := strconv.Atoi(parts[7])
	if err != nil {
		return Invite{}, apperrors.Wrap(err, apperrors.ErrCodeInvalidInvite, "bad time limit")
	}

	return Invite{
		OwnerID:        ownerID,
		BattleID:       uint(battleID),
		RoomID:         parts[3],
		QuestionCount:  count,
		TimeoutSeconds: seconds,
	}, nil
}
