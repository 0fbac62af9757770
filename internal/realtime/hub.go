package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

const recordTimeout = 5 * time.Second

// PlaybackRecorder stores the last relayed playback pointer of a room.
type PlaybackRecorder interface {
	RecordPlayback(ctx context.Context, roomRef string, songID *uuid.UUID, playing bool) error
}

type subscription struct {
	client *Client
	room   string
}

type reply struct {
	client *Client
	frame  []byte
}

// Hub owns the set of connected clients and their room subscriptions. All of
// that state is touched only by the Run goroutine.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register    chan *Client
	unregister  chan *Client
	subscribe   chan subscription
	unsubscribe chan subscription
	deliver     chan Message
	reply       chan reply
	inspect     chan func()
	done        chan struct{}

	relay     Relay
	sequencer Sequencer
	recorder  PlaybackRecorder
	records   chan playbackRecord

	connections atomic.Int64
}

type HubOption func(*Hub)

// WithRelay fans messages out through relay instead of delivering locally.
// The caller runs relay.Subscribe(ctx, hub.Deliver).
func WithRelay(relay Relay) HubOption {
	return func(h *Hub) { h.relay = relay }
}

func WithSequencer(seq Sequencer) HubOption {
	return func(h *Hub) { h.sequencer = seq }
}

func WithRecorder(rec PlaybackRecorder) HubOption {
	return func(h *Hub) { h.recorder = rec }
}

func NewHub(opts ...HubOption) *Hub {
	h := &Hub{
		clients:     make(map[*Client]bool),
		rooms:       make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		subscribe:   make(chan subscription),
		unsubscribe: make(chan subscription),
		deliver:     make(chan Message, 256),
		reply:       make(chan reply, 64),
		inspect:     make(chan func()),
		done:        make(chan struct{}),
		sequencer:   NewLocalSequencer(),
		records:     make(chan playbackRecord, 256),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run processes hub events until ctx is done, then drops every client.
func (h *Hub) Run(ctx context.Context) {
	if h.recorder != nil {
		go h.recordLoop()
	}
	defer func() {
		close(h.done)
		for client := range h.clients {
			h.drop(client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.connections.Store(int64(len(h.clients)))

		case client := <-h.unregister:
			h.drop(client)

		case sub := <-h.subscribe:
			if !h.clients[sub.client] {
				continue
			}
			members, ok := h.rooms[sub.room]
			if !ok {
				members = make(map[*Client]bool)
				h.rooms[sub.room] = members
			}
			members[sub.client] = true
			sub.client.rooms[sub.room] = true

		case sub := <-h.unsubscribe:
			h.leave(sub.client, sub.room)

		case msg := <-h.deliver:
			for client := range h.rooms[msg.Room] {
				if client.id == msg.Origin {
					continue
				}
				select {
				case client.send <- msg.Frame:
				default:
					slog.Warn("realtime client too slow, dropping", "conn_id", client.id)
					h.drop(client)
				}
			}

		case r := <-h.reply:
			if !h.clients[r.client] {
				continue
			}
			select {
			case r.client.send <- r.frame:
			default:
				h.drop(r.client)
			}

		case fn := <-h.inspect:
			fn()
		}
	}
}

// drop removes client from every room topic and closes its send channel.
// Room membership in the store is not touched.
func (h *Hub) drop(client *Client) {
	if !h.clients[client] {
		return
	}
	for room := range client.rooms {
		h.leave(client, room)
	}
	delete(h.clients, client)
	close(client.send)
	h.connections.Store(int64(len(h.clients)))
}

func (h *Hub) leave(client *Client, room string) {
	if members, ok := h.rooms[room]; ok {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(client.rooms, room)
}

// Connections reports the number of registered clients.
func (h *Hub) Connections() int {
	return int(h.connections.Load())
}

// Subscribers reports how many clients are subscribed to room.
func (h *Hub) Subscribers(room string) int {
	result := make(chan int, 1)
	select {
	case h.inspect <- func() { result <- len(h.rooms[room]) }:
		return <-result
	case <-h.done:
		return 0
	}
}

// Deliver hands msg to local subscribers. It is the relay's callback.
func (h *Hub) Deliver(msg Message) {
	select {
	case h.deliver <- msg:
	case <-h.done:
	}
}

func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
		// never registered, so the hub will not close it
		close(client.send)
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) join(client *Client, room string) {
	select {
	case h.subscribe <- subscription{client: client, room: room}:
	case <-h.done:
	}
}

func (h *Hub) part(client *Client, room string) {
	select {
	case h.unsubscribe <- subscription{client: client, room: room}:
	case <-h.done:
	}
}

func (h *Hub) send(client *Client, event string, data interface{}) {
	frame, err := encodeFrame(event, data)
	if err != nil {
		slog.Error("failed to encode realtime frame", "event", event, "error", err)
		return
	}
	select {
	case h.reply <- reply{client: client, frame: frame}:
	case <-h.done:
	}
}

func (h *Hub) sendError(client *Client, message string) {
	h.send(client, EventError, ErrorPayload{Message: message})
}

// Handle dispatches one inbound frame from client.
func (h *Hub) Handle(ctx context.Context, client *Client, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
		h.sendError(client, "malformed message")
		return
	}

	switch frame.Event {
	case EventJoinRoom:
		room, ok := roomID(frame.Data)
		if !ok {
			h.sendError(client, "roomId is required")
			return
		}
		h.join(client, room)
		h.send(client, EventRoomJoined, RoomRef{RoomID: room})

	case EventLeaveRoom:
		room, ok := roomID(frame.Data)
		if !ok {
			h.sendError(client, "roomId is required")
			return
		}
		h.part(client, room)
		h.send(client, EventRoomLeft, RoomRef{RoomID: room})

	case EventPlaySong:
		var p PlayPayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.RoomID == "" {
			h.sendError(client, "play-song requires roomId, song and time")
			return
		}
		h.relayPlayback(ctx, client, EventSongPlaying, PlaybackEvent{RoomID: p.RoomID, Song: p.Song, Time: p.Time}, songID(p.Song), true)

	case EventPauseSong:
		var p PausePayload
		if err := json.Unmarshal(frame.Data, &p); err != nil || p.RoomID == "" {
			h.sendError(client, "pause-song requires roomId and time")
			return
		}
		h.relayPlayback(ctx, client, EventSongPaused, PlaybackEvent{RoomID: p.RoomID, Time: p.Time}, nil, false)

	default:
		h.sendError(client, "unknown event "+frame.Event)
	}
}

// relayPlayback broadcasts evt to the other subscribers of its room. It is
// at-most-once; a failed publish is logged and not retried.
func (h *Hub) relayPlayback(ctx context.Context, client *Client, event string, evt PlaybackEvent, song *uuid.UUID, playing bool) {
	seq, err := h.sequencer.Next(ctx, evt.RoomID)
	if err != nil {
		slog.Warn("room sequence unavailable", "room_id", evt.RoomID, "error", err)
	}
	evt.Seq = seq
	evt.From = client.userID.String()

	frame, err := encodeFrame(event, evt)
	if err != nil {
		slog.Error("failed to encode playback event", "error", err)
		return
	}
	msg := Message{Room: evt.RoomID, Origin: client.id, Frame: frame}

	if h.relay != nil {
		if err := h.relay.Publish(ctx, msg); err != nil {
			slog.Error("realtime relay publish failed", "room_id", evt.RoomID, "error", err)
		}
	} else {
		h.Deliver(msg)
	}

	if h.recorder != nil {
		select {
		case h.records <- playbackRecord{room: evt.RoomID, song: song, playing: playing}:
		default:
			slog.Warn("playback recorder backlog full, dropping", "room_id", evt.RoomID)
		}
	}
}

type playbackRecord struct {
	room    string
	song    *uuid.UUID
	playing bool
}

// recordLoop writes playback pointers one at a time so a play followed by a
// pause is stored in that order.
func (h *Hub) recordLoop() {
	for {
		select {
		case rec := <-h.records:
			h.record(rec)
		case <-h.done:
			return
		}
	}
}

func (h *Hub) record(rec playbackRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()
	if err := h.recorder.RecordPlayback(ctx, rec.room, rec.song, rec.playing); err != nil {
		slog.Debug("playback not recorded", "room_id", rec.room, "error", err)
	}
}

func roomID(data json.RawMessage) (string, bool) {
	var ref RoomRef
	if err := json.Unmarshal(data, &ref); err == nil && ref.RoomID != "" {
		return ref.RoomID, true
	}
	// a bare string is accepted as the room id
	var s string
	if err := json.Unmarshal(data, &s); err == nil && s != "" {
		return s, true
	}
	return "", false
}
