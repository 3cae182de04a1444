package core

// State is the conversation state for one session. Messages accumulate across
// turns; RetrievedDocs, Grade and WebDocs are scratch fields for the turn in
// flight and are reset when a new turn begins.
//
// State deliberately carries no user or session identity — identity travels
// in TurnContext arguments, never in checkpointed state.
type State struct {
	Messages      []Message `json:"messages"`
	RetrievedDocs []string  `json:"retrieved_docs,omitempty"`
	Grade         Grade     `json:"grade,omitempty"`
	WebDocs       string    `json:"web_docs,omitempty"`
}

// Update is the partial output of a single pipeline step. Sequence fields
// merge additively, scalar fields replace. Zero-valued fields are no-ops.
type Update struct {
	Messages      []Message
	RetrievedDocs []string
	Grade         Grade
	WebDocs       string
}

// Apply merges a step's partial output into the state: Messages are
// concatenated, never replaced; the remaining fields are replace-merge.
func (s *State) Apply(u Update) {
	s.Messages = append(s.Messages, u.Messages...)
	if u.RetrievedDocs != nil {
		s.RetrievedDocs = u.RetrievedDocs
	}
	if u.Grade != GradeUnknown {
		s.Grade = u.Grade
	}
	if u.WebDocs != "" {
		s.WebDocs = u.WebDocs
	}
}

// ResetTurn clears the per-turn scratch fields while keeping message history.
func (s *State) ResetTurn() {
	s.RetrievedDocs = nil
	s.Grade = GradeUnknown
	s.WebDocs = ""
}

// Clone returns a deep copy. Steps receive state by value and checkpoints
// must not alias live slices.
func (s State) Clone() State {
	out := s
	if s.Messages != nil {
		out.Messages = make([]Message, len(s.Messages))
		copy(out.Messages, s.Messages)
	}
	if s.RetrievedDocs != nil {
		out.RetrievedDocs = make([]string, len(s.RetrievedDocs))
		copy(out.RetrievedDocs, s.RetrievedDocs)
	}
	return out
}

// LastMessage returns the most recent message, if any.
func (s State) LastMessage() (Message, bool) {
	if len(s.Messages) == 0 {
		return Message{}, false
	}
	return s.Messages[len(s.Messages)-1], true
}
