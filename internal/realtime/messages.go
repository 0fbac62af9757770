package realtime

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Inbound events.
const (
	EventJoinRoom  = "join-room"
	EventLeaveRoom = "leave-room"
	EventPlaySong  = "play-song"
	EventPauseSong = "pause-song"
)

// Outbound events.
const (
	EventRoomJoined  = "room-joined"
	EventRoomLeft    = "room-left"
	EventSongPlaying = "song-playing"
	EventSongPaused  = "song-paused"
	EventError       = "error"
)

// Frame is the envelope of every websocket message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type RoomRef struct {
	RoomID string `json:"roomId"`
}

type PlayPayload struct {
	RoomID string          `json:"roomId"`
	Song   json.RawMessage `json:"song"`
	Time   float64         `json:"time"`
}

type PausePayload struct {
	RoomID string  `json:"roomId"`
	Time   float64 `json:"time"`
}

// PlaybackEvent is what peers receive. Seq increases per room and only helps
// clients drop stale messages; delivery order is not guaranteed.
type PlaybackEvent struct {
	RoomID string          `json:"roomId"`
	Song   json.RawMessage `json:"song,omitempty"`
	Time   float64         `json:"time"`
	Seq    int64           `json:"seq"`
	From   string          `json:"from"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// Message is one fan-out unit: a pre-encoded frame for every subscriber of
// Room except the connection named by Origin.
type Message struct {
	Room   string          `json:"room"`
	Origin string          `json:"origin"`
	Frame  json.RawMessage `json:"frame"`
}

func encodeFrame(event string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}

// songID extracts a catalog id from the song reference a client sent, which
// is either the id itself or an object carrying it.
func songID(song json.RawMessage) *uuid.UUID {
	if len(song) == 0 {
		return nil
	}

	var s string
	if err := json.Unmarshal(song, &s); err == nil {
		if id, err := uuid.Parse(s); err == nil {
			return &id
		}
		return nil
	}

	var obj struct {
		ID  string `json:"id"`
		UID string `json:"_id"`
	}
	if err := json.Unmarshal(song, &obj); err != nil {
		return nil
	}
	for _, candidate := range []string{obj.ID, obj.UID} {
		if id, err := uuid.Parse(candidate); err == nil {
			return &id
		}
	}
	return nil
}
