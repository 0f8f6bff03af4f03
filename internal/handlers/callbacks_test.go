package handlers

import "testing"

func TestDecodeCallback(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    Callback
		wantErr bool
	}{
		{"lang uzbek", "lang_1", Callback{Kind: CallbackLang, LangID: 1}, false},
		{"lang russian", "lang_2", Callback{Kind: CallbackLang, LangID: 2}, false},
		{"battle open", "battle_open_42", Callback{Kind: CallbackBattleOpen, BattleID: 42}, false},
		{"battle solo", "battle_solo_42", Callback{Kind: CallbackBattleSolo, BattleID: 42}, false},
		{"battle room", "battle_room_42", Callback{Kind: CallbackBattleRoom, BattleID: 42}, false},
		{"room start", "room_start_aB3-xyz", Callback{Kind: CallbackRoomStart, RoomID: "aB3-xyz"}, false},
		{"room end", "room_end_aB3-xyz", Callback{Kind: CallbackRoomEnd, RoomID: "aB3-xyz"}, false},
		{"rating", "rating_aB3-xyz", Callback{Kind: CallbackRating, RoomID: "aB3-xyz"}, false},
		{"unknown", "mystery_button", Callback{}, true},
		{"bad lang", "lang_xx", Callback{}, true},
		{"bad battle", "battle_open_abc", Callback{}, true},
		{"bad solo battle", "battle_solo_abc", Callback{}, true},
		{"empty room", "room_start_", Callback{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeCallback(tt.data)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DecodeCallback(%q) error = %v, wantErr %v", tt.data, err, tt.wantErr)
			}
			if err == nil && got != tt.want {
				t.Errorf("DecodeCallback(%q) = %+v, want %+v", tt.data, got, tt.want)
			}
		})
	}
}

func TestEncodeBattleCallbacksRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
		want CallbackKind
	}{
		{"open", encodeBattleOpen(7), CallbackBattleOpen},
		{"solo", encodeBattleSolo(7), CallbackBattleSolo},
		{"room", encodeBattleRoom(7), CallbackBattleRoom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb, err := DecodeCallback(tt.data)
			if err != nil {
				t.Fatalf("DecodeCallback(%q) error = %v", tt.data, err)
			}
			if cb.Kind != tt.want || cb.BattleID != 7 {
				t.Errorf("round trip = %+v, want %s with id 7", cb, tt.want)
			}
		})
	}
}
