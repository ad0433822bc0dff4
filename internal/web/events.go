package web

import (
	"encoding/json"
	"log/slog"

	"github.com/HarshalChaudhari1806/music-mood/internal/playback"
)

// Bridge forwards playback events to the websocket hub as typed JSON
// messages. One bridge per process is enough; the hub fans out.
type Bridge struct {
	sub *playback.Subscription
	hub *Hub
	log *slog.Logger
}

func NewBridge(pb playback.Service, hub *Hub, log *slog.Logger) *Bridge {
	return &Bridge{
		sub: pb.Subscribe(),
		hub: hub,
		log: log,
	}
}

// Run pumps events until the playback service closes the subscription.
func (b *Bridge) Run() {
	for {
		select {
		case <-b.sub.Done:
			return

		case e := <-b.sub.MoodChanged:
			b.send("mood_changed", map[string]any{
				"previous": e.Previous,
				"mood":     e.Current,
				"manual":   e.Manual,
			})

		case e := <-b.sub.TrackChanged:
			b.send("track_changed", map[string]any{
				"track": e.Current,
				"index": e.Index,
			})

		case e := <-b.sub.StateChanged:
			b.send("state_changed", map[string]any{
				"previous": e.Previous.String(),
				"state":    e.Current.String(),
			})

		case e := <-b.sub.VolumeChange:
			b.send("volume_changed", map[string]any{
				"volume": e.Level,
				"muted":  e.Muted,
			})

		case e := <-b.sub.ModeChanged:
			b.send("mode_changed", map[string]any{
				"repeat":  e.RepeatMode.String(),
				"shuffle": e.Shuffle,
			})

		case e := <-b.sub.Error:
			b.send("playback_error", map[string]any{
				"operation": e.Operation,
				"path":      e.Path,
				"error":     e.Err.Error(),
			})
		}
	}
}

func (b *Bridge) send(kind string, payload map[string]any) {
	msg := map[string]any{"type": kind}
	for k, v := range payload {
		msg[k] = v
	}
	data, err := json.Marshal(msg)
	if err != nil {
		b.log.Warn("marshal ws event", "type", kind, "error", err)
		return
	}
	b.hub.Broadcast(data)
}
