package core

import "errors"

// Turn-level error kinds. Each pipeline step wraps its collaborator's failure
// in exactly one of these; none are retried and any of them aborts the rest
// of the turn's state machine. Callers match with errors.Is.
var (
	ErrRetrieval  = errors.New("retrieval failed")
	ErrGrading    = errors.New("grading failed")
	ErrSearch     = errors.New("web search failed")
	ErrGeneration = errors.New("generation failed")
	ErrExtraction = errors.New("extraction failed")
	ErrStore      = errors.New("store failed")
)

// ErrInference is the single error kind the language-model collaborator
// surfaces. Steps wrap it into their stage-specific kind above.
var ErrInference = errors.New("inference failed")
