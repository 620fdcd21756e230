// Package health tracks the process-wide lifecycle state and per-store
// readiness. The API refuses requests with 503 until both stores report
// ready, replacing ad-hoc boolean flags with an explicit state machine.
package health

import (
	"sync/atomic"
	"time"
)

// Phase is the process lifecycle phase.
type Phase int32

const (
	Starting Phase = iota
	Ready
	ShuttingDown
)

// String returns the lowercase phase name.
func (p Phase) String() string {
	switch p {
	case Starting:
		return "starting"
	case Ready:
		return "ready"
	case ShuttingDown:
		return "shutting_down"
	}
	return "unknown"
}

// State holds the lifecycle phase and per-store readiness flags. All
// methods are safe for concurrent use.
type State struct {
	phase      atomic.Int32
	mysqlReady atomic.Bool
	mongoReady atomic.Bool
	startedAt  time.Time
}

// NewState creates a State in the Starting phase.
func NewState() *State {
	return &State{startedAt: time.Now()}
}

// Phase returns the current lifecycle phase.
func (s *State) Phase() Phase {
	return Phase(s.phase.Load())
}

// MarkMySQLReady records that the identity store finished initializing.
func (s *State) MarkMySQLReady() {
	s.mysqlReady.Store(true)
	s.promote()
}

// MarkMongoReady records that the complaint store finished initializing.
func (s *State) MarkMongoReady() {
	s.mongoReady.Store(true)
	s.promote()
}

// promote moves Starting to Ready once both stores are up. It never
// leaves ShuttingDown.
func (s *State) promote() {
	if s.mysqlReady.Load() && s.mongoReady.Load() {
		s.phase.CompareAndSwap(int32(Starting), int32(Ready))
	}
}

// BeginShutdown transitions to ShuttingDown. Safe to call more than once.
func (s *State) BeginShutdown() {
	s.phase.Store(int32(ShuttingDown))
}

// AcceptingRequests reports whether API requests should be served.
func (s *State) AcceptingRequests() bool {
	return s.Phase() == Ready
}

// MySQLReady reports identity store readiness.
func (s *State) MySQLReady() bool { return s.mysqlReady.Load() }

// MongoReady reports complaint store readiness.
func (s *State) MongoReady() bool { return s.mongoReady.Load() }

// Uptime returns the time elapsed since the process started.
func (s *State) Uptime() time.Duration {
	return time.Since(s.startedAt)
}
