package server

import (
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// Input frames arrive every 16ms from a well-behaved client; the limiter
// allows roughly four times that before dropping.
const (
	inputRatePerSec = 250
	inputBurst      = 500
)

// Session ties a connection to its player id for one round. ConnId is a
// log-correlation id: player ids restart at 1 every round, the uuid does not.
type Session struct {
	PlayerId int
	ConnId   string
	Conn     Conn

	limiter *rate.Limiter
	dropped atomic.Int64
}

func newSession(playerId int, conn Conn) *Session {
	return &Session{
		PlayerId: playerId,
		ConnId:   uuid.NewString(),
		Conn:     conn,
		limiter:  rate.NewLimiter(rate.Limit(inputRatePerSec), inputBurst),
	}
}

// AllowInput reports whether another input frame may be applied now. Frames
// over the limit count as dropped; the tally is read at disconnect.
func (s *Session) AllowInput() bool {
	if s.limiter.Allow() {
		return true
	}
	s.dropped.Add(1)
	return false
}

// DroppedInputs returns how many input frames the limiter rejected.
func (s *Session) DroppedInputs() int64 {
	return s.dropped.Load()
}
