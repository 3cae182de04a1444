package core

// TurnContext carries the per-call identity the pipeline injects into steps
// that address the profile store. It is passed explicitly as an argument and
// is never stored inside State.
type TurnContext struct {
	UserID    string
	SessionID string
}
