package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T, opts ...HubOption) *Hub {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := NewHub(opts...)
	go hub.Run(ctx)
	return hub
}

func newFakeClient(t *testing.T, hub *Hub) *Client {
	t.Helper()
	c := NewClient(hub, nil, uuid.New())
	hub.Register(c)
	return c
}

func recv(t *testing.T, c *Client) Frame {
	t.Helper()
	select {
	case raw, ok := <-c.send:
		require.True(t, ok, "send channel closed")
		var f Frame
		require.NoError(t, json.Unmarshal(raw, &f))
		return f
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for frame")
		return Frame{}
	}
}

func expectSilence(t *testing.T, c *Client) {
	t.Helper()
	select {
	case raw := <-c.send:
		t.Fatalf("unexpected frame %s", raw)
	case <-time.After(100 * time.Millisecond):
	}
}

func emit(t *testing.T, hub *Hub, c *Client, event string, data interface{}) {
	t.Helper()
	raw, err := encodeFrame(event, data)
	require.NoError(t, err)
	hub.Handle(context.Background(), c, raw)
}

func joinRoom(t *testing.T, hub *Hub, c *Client, room string) {
	t.Helper()
	emit(t, hub, c, EventJoinRoom, RoomRef{RoomID: room})
	f := recv(t, c)
	require.Equal(t, EventRoomJoined, f.Event)
}

func playback(t *testing.T, f Frame) PlaybackEvent {
	t.Helper()
	var evt PlaybackEvent
	require.NoError(t, json.Unmarshal(f.Data, &evt))
	return evt
}

func TestHub_PlayIsRelayedToOthersOnly(t *testing.T) {
	hub := startHub(t)
	host, peer, outsider := newFakeClient(t, hub), newFakeClient(t, hub), newFakeClient(t, hub)
	joinRoom(t, hub, host, "r1")
	joinRoom(t, hub, peer, "r1")
	joinRoom(t, hub, outsider, "r2")

	emit(t, hub, host, EventPlaySong, PlayPayload{RoomID: "r1", Song: json.RawMessage(`"song-1"`), Time: 42})

	f := recv(t, peer)
	assert.Equal(t, EventSongPlaying, f.Event)
	evt := playback(t, f)
	assert.Equal(t, "r1", evt.RoomID)
	assert.Equal(t, float64(42), evt.Time)
	assert.JSONEq(t, `"song-1"`, string(evt.Song))
	assert.Equal(t, host.userID.String(), evt.From)
	assert.EqualValues(t, 1, evt.Seq)

	expectSilence(t, host)
	expectSilence(t, outsider)
}

func TestHub_Pause(t *testing.T) {
	hub := startHub(t)
	host, peer := newFakeClient(t, hub), newFakeClient(t, hub)
	joinRoom(t, hub, host, "r1")
	joinRoom(t, hub, peer, "r1")

	emit(t, hub, peer, EventPauseSong, PausePayload{RoomID: "r1", Time: 12.5})

	f := recv(t, host)
	assert.Equal(t, EventSongPaused, f.Event)
	evt := playback(t, f)
	assert.Equal(t, 12.5, evt.Time)
	assert.Empty(t, evt.Song)
	expectSilence(t, peer)
}

func TestHub_SeqIsPerRoom(t *testing.T) {
	hub := startHub(t)
	a, b := newFakeClient(t, hub), newFakeClient(t, hub)
	joinRoom(t, hub, b, "r1")
	joinRoom(t, hub, b, "r2")

	emit(t, hub, a, EventPlaySong, PlayPayload{RoomID: "r1", Time: 1})
	emit(t, hub, a, EventPauseSong, PausePayload{RoomID: "r1", Time: 2})
	emit(t, hub, a, EventPlaySong, PlayPayload{RoomID: "r2", Time: 3})

	assert.EqualValues(t, 1, playback(t, recv(t, b)).Seq)
	assert.EqualValues(t, 2, playback(t, recv(t, b)).Seq)
	assert.EqualValues(t, 1, playback(t, recv(t, b)).Seq)
}

func TestHub_LeaveRoom(t *testing.T) {
	hub := startHub(t)
	host, peer := newFakeClient(t, hub), newFakeClient(t, hub)
	joinRoom(t, hub, host, "r1")
	joinRoom(t, hub, peer, "r1")

	emit(t, hub, peer, EventLeaveRoom, RoomRef{RoomID: "r1"})
	assert.Equal(t, EventRoomLeft, recv(t, peer).Event)
	assert.Equal(t, 1, hub.Subscribers("r1"))

	emit(t, hub, host, EventPlaySong, PlayPayload{RoomID: "r1", Time: 5})
	expectSilence(t, peer)
}

func TestHub_DisconnectLeavesEveryTopic(t *testing.T) {
	hub := startHub(t)
	c := newFakeClient(t, hub)
	other := newFakeClient(t, hub)
	joinRoom(t, hub, c, "r1")
	joinRoom(t, hub, c, "r2")
	joinRoom(t, hub, other, "r2")
	assert.Equal(t, 2, hub.Connections())

	hub.Unregister(c)

	assert.Equal(t, 0, hub.Subscribers("r1"))
	assert.Equal(t, 1, hub.Subscribers("r2"))
	assert.Equal(t, 1, hub.Connections())

	_, ok := <-c.send
	assert.False(t, ok, "send channel should be closed")

	// the remaining subscriber still gets traffic
	emit(t, hub, c, EventPlaySong, PlayPayload{RoomID: "r2", Time: 1})
	assert.Equal(t, EventSongPlaying, recv(t, other).Event)
}

func TestHub_MalformedFrames(t *testing.T) {
	hub := startHub(t)
	c := newFakeClient(t, hub)

	hub.Handle(context.Background(), c, []byte("not json"))
	assert.Equal(t, EventError, recv(t, c).Event)

	emit(t, hub, c, EventJoinRoom, map[string]string{})
	assert.Equal(t, EventError, recv(t, c).Event)

	emit(t, hub, c, EventPlaySong, map[string]int{"time": 3})
	assert.Equal(t, EventError, recv(t, c).Event)

	emit(t, hub, c, "dance", nil)
	f := recv(t, c)
	assert.Equal(t, EventError, f.Event)
	var p ErrorPayload
	require.NoError(t, json.Unmarshal(f.Data, &p))
	assert.Contains(t, p.Message, "dance")
}

func TestHub_JoinAcceptsBareRoomID(t *testing.T) {
	hub := startHub(t)
	c := newFakeClient(t, hub)
	emit(t, hub, c, EventJoinRoom, "r9")
	f := recv(t, c)
	assert.Equal(t, EventRoomJoined, f.Event)
	assert.Equal(t, 1, hub.Subscribers("r9"))
}

type playbackCall struct {
	room    string
	song    *uuid.UUID
	playing bool
}

type fakeRecorder struct {
	calls chan playbackCall
}

func (f *fakeRecorder) RecordPlayback(_ context.Context, room string, song *uuid.UUID, playing bool) error {
	f.calls <- playbackCall{room: room, song: song, playing: playing}
	return nil
}

func TestHub_RecordsPlayback(t *testing.T) {
	rec := &fakeRecorder{calls: make(chan playbackCall, 4)}
	hub := startHub(t, WithRecorder(rec))
	c := newFakeClient(t, hub)
	song := uuid.New()

	emit(t, hub, c, EventPlaySong, PlayPayload{RoomID: "r1", Song: json.RawMessage(`{"id":"` + song.String() + `","title":"x"}`), Time: 1})
	call := <-rec.calls
	assert.Equal(t, "r1", call.room)
	require.NotNil(t, call.song)
	assert.Equal(t, song, *call.song)
	assert.True(t, call.playing)

	emit(t, hub, c, EventPauseSong, PausePayload{RoomID: "r1", Time: 2})
	call = <-rec.calls
	assert.Nil(t, call.song)
	assert.False(t, call.playing)
}

// slowRecorder holds its first write until release is closed and keeps the
// order in which writes complete.
type slowRecorder struct {
	release chan struct{}
	mu      sync.Mutex
	first   bool
	written []bool
}

func (r *slowRecorder) RecordPlayback(_ context.Context, _ string, _ *uuid.UUID, playing bool) error {
	r.mu.Lock()
	first := !r.first
	r.first = true
	r.mu.Unlock()
	if first {
		<-r.release
	}
	r.mu.Lock()
	r.written = append(r.written, playing)
	r.mu.Unlock()
	return nil
}

func (r *slowRecorder) writes() []bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]bool(nil), r.written...)
}

func TestHub_RecordsPlaybackInRelayOrder(t *testing.T) {
	rec := &slowRecorder{release: make(chan struct{})}
	hub := startHub(t, WithRecorder(rec))
	c := newFakeClient(t, hub)

	emit(t, hub, c, EventPlaySong, PlayPayload{RoomID: "r1", Song: json.RawMessage(`"` + uuid.NewString() + `"`), Time: 1})
	emit(t, hub, c, EventPauseSong, PausePayload{RoomID: "r1", Time: 2})

	// the pause must wait behind the slow play write
	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, rec.writes())
	close(rec.release)

	assert.Eventually(t, func() bool { return len(rec.writes()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []bool{true, false}, rec.writes())
}

func TestSongID(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, *songID(json.RawMessage(`"` + id.String() + `"`)))
	assert.Equal(t, id, *songID(json.RawMessage(`{"_id":"` + id.String() + `"}`)))
	assert.Nil(t, songID(json.RawMessage(`"demo-1"`)))
	assert.Nil(t, songID(json.RawMessage(`42`)))
	assert.Nil(t, songID(nil))
}
