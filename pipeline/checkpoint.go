package pipeline

import (
	"sync"
	"time"

	"github.com/sahayak-ai/sahayak/core"
)

// Checkpointer persists per-session conversation state between steps and
// between turns. Load returns a deep copy; Save stores a deep copy, so a
// checkpoint never aliases live pipeline state.
type Checkpointer interface {
	Load(sessionID string) (core.State, bool)
	Save(sessionID string, state core.State)
}

// DefaultMaxSessions bounds the in-memory checkpointer.
const DefaultMaxSessions = 1024

type checkpoint struct {
	state   core.State
	savedAt time.Time
}

// BoundedCheckpointer is a mutex-guarded in-memory checkpointer. When the
// session count exceeds the bound, the least recently saved session is
// evicted; an evicted session simply restarts with empty history.
type BoundedCheckpointer struct {
	mu          sync.Mutex
	sessions    map[string]*checkpoint
	maxSessions int
}

func NewBoundedCheckpointer(maxSessions int) *BoundedCheckpointer {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &BoundedCheckpointer{
		sessions:    make(map[string]*checkpoint),
		maxSessions: maxSessions,
	}
}

func (c *BoundedCheckpointer) Load(sessionID string) (core.State, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cp, ok := c.sessions[sessionID]
	if !ok {
		return core.State{}, false
	}
	return cp.state.Clone(), true
}

func (c *BoundedCheckpointer) Save(sessionID string, state core.State) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sessions[sessionID] = &checkpoint{state: state.Clone(), savedAt: time.Now()}

	for len(c.sessions) > c.maxSessions {
		oldestID := ""
		var oldestAt time.Time
		for id, cp := range c.sessions {
			if oldestID == "" || cp.savedAt.Before(oldestAt) {
				oldestID = id
				oldestAt = cp.savedAt
			}
		}
		delete(c.sessions, oldestID)
	}
}

// Len reports the number of tracked sessions.
func (c *BoundedCheckpointer) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}
