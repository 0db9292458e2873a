// Package presence tracks user liveness from heartbeat recency.
package presence

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/salesmatrix/sales-matrix/internal/kvstore"
	"github.com/salesmatrix/sales-matrix/internal/remote"
)

const (
	// HeartbeatInterval is how often an active session rewrites its record.
	HeartbeatInterval = 30 * time.Second
	// OnlineThreshold is the staleness bound for classifying a user online.
	OnlineThreshold = 2 * time.Minute
)

// Tracker writes heartbeats and classifies users online/offline.
//
// Classification is a pure function of now-lastSeen with no hysteresis; with
// the 30s cadence an active session can read as stale for up to 150s in the
// worst case. Last writer wins across devices.
type Tracker struct {
	store  kvstore.Store
	mirror remote.Mirror
	log    *zap.Logger
	now    func() time.Time
}

// New constructs a Tracker over the local store and the best-effort mirror.
func New(store kvstore.Store, mirror remote.Mirror, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{store: store, mirror: mirror, log: log, now: time.Now}
}

// Heartbeat records that username is alive right now. The remote write is
// best-effort: failure is logged and the local record stands.
func (t *Tracker) Heartbeat(ctx context.Context, username string) error {
	if username == "" {
		return nil
	}
	if err := t.store.Set(kvstore.PrefixPresence+username, t.now().UnixMilli()); err != nil {
		return err
	}
	if err := t.mirror.SetPresence(ctx, username); err != nil {
		t.log.Debug("presence mirror write failed", zap.String("user", username), zap.Error(err))
	}
	return nil
}

// Online reports whether username heartbeated within the threshold.
func (t *Tracker) Online(username string) bool {
	var lastSeen int64
	if !t.store.Get(kvstore.PrefixPresence+username, &lastSeen) {
		return false
	}
	return t.now().UnixMilli()-lastSeen < OnlineThreshold.Milliseconds()
}

// LastSeen returns the recorded heartbeat time, if any.
func (t *Tracker) LastSeen(username string) (time.Time, bool) {
	var lastSeen int64
	if !t.store.Get(kvstore.PrefixPresence+username, &lastSeen) {
		return time.Time{}, false
	}
	return time.UnixMilli(lastSeen), true
}

// Run emits a heartbeat immediately and then every HeartbeatInterval until
// ctx is canceled.
func (t *Tracker) Run(ctx context.Context, username string) {
	if err := t.Heartbeat(ctx, username); err != nil {
		t.log.Warn("heartbeat", zap.Error(err))
	}
	ticker := time.NewTicker(HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := t.Heartbeat(ctx, username); err != nil {
				t.log.Warn("heartbeat", zap.Error(err))
			}
		}
	}
}
