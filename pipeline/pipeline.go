// Package pipeline runs the question-answering turn: retrieve context, grade
// it, fall back to web search when it is not relevant, generate a personalized
// answer, then update the student's long-term memory. The turn is a small
// state machine; every completed step checkpoints the session state before
// the next one runs.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/sahayak-ai/sahayak/core"
	"github.com/sahayak-ai/sahayak/llm"
	"github.com/sahayak-ai/sahayak/memory"
	"github.com/sahayak-ai/sahayak/retrieval"
	"github.com/sahayak-ai/sahayak/websearch"
)

// node names the steps of the turn state machine.
type node int

const (
	nodeRetrieve node = iota
	nodeGrade
	nodeWebSearch
	nodeGenerate
	nodeUpdateMemory
	nodeEnd
)

func (n node) String() string {
	switch n {
	case nodeRetrieve:
		return "retrieve"
	case nodeGrade:
		return "grade"
	case nodeWebSearch:
		return "web_search"
	case nodeGenerate:
		return "generate"
	case nodeUpdateMemory:
		return "update_memory"
	default:
		return "end"
	}
}

// route is the single conditional edge: relevant context goes straight to
// generation, anything else detours through web fallback.
func route(grade core.Grade) node {
	if grade == core.GradeRelevant {
		return nodeGenerate
	}
	return nodeWebSearch
}

const defaultStepTimeout = 60 * time.Second

// Pipeline wires the collaborators for turn processing.
type Pipeline struct {
	llm         llm.Client
	retriever   retrieval.Retriever
	search      websearch.Client
	profiles    memory.ProfileStore
	updater     *memory.Updater
	checkpoints Checkpointer
	stepTimeout time.Duration
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithCheckpointer replaces the default in-memory checkpointer.
func WithCheckpointer(c Checkpointer) Option {
	return func(p *Pipeline) { p.checkpoints = c }
}

// WithStepTimeout bounds each pipeline step. Default 60s.
func WithStepTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.stepTimeout = d
		}
	}
}

func New(client llm.Client, retriever retrieval.Retriever, search websearch.Client, profiles memory.ProfileStore, opts ...Option) *Pipeline {
	p := &Pipeline{
		llm:         client,
		retriever:   retriever,
		search:      search,
		profiles:    profiles,
		updater:     memory.NewUpdater(client, profiles),
		checkpoints: NewBoundedCheckpointer(DefaultMaxSessions),
		stepTimeout: defaultStepTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// RunTurn processes one user question for (turn.UserID, turn.SessionID) and
// returns the assistant answer. Message history accumulates across turns of
// the same session; per-turn scratch is reset at the start of each turn.
func (p *Pipeline) RunTurn(ctx context.Context, turn core.TurnContext, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("question must not be empty")
	}
	if turn.UserID == "" || turn.SessionID == "" {
		return "", fmt.Errorf("user and session IDs must not be empty")
	}

	state, _ := p.checkpoints.Load(turn.SessionID)
	state.ResetTurn()
	state.Apply(core.Update{Messages: []core.Message{core.NewUserMessage(question)}})
	p.checkpoints.Save(turn.SessionID, state)

	log.Printf("[PIPELINE] user=%s session=%s turn started (%d messages)", turn.UserID, turn.SessionID, len(state.Messages))

	current := nodeRetrieve
	for current != nodeEnd {
		update, next, err := p.step(ctx, current, turn, state)
		if err != nil {
			log.Printf("[PIPELINE] user=%s session=%s step %s failed: %v", turn.UserID, turn.SessionID, current, err)
			return "", err
		}

		state.Apply(update)
		p.checkpoints.Save(turn.SessionID, state)
		current = next
	}

	last, ok := state.LastMessage()
	if !ok || last.Role != core.RoleAssistant {
		return "", fmt.Errorf("%w: turn finished without an answer", core.ErrGeneration)
	}
	return last.Content, nil
}

// step executes one node under the step timeout and returns its state update
// plus the next node.
func (p *Pipeline) step(ctx context.Context, n node, turn core.TurnContext, state core.State) (core.Update, node, error) {
	stepCtx, cancel := context.WithTimeout(ctx, p.stepTimeout)
	defer cancel()

	question, _ := lastUserContent(state)

	switch n {
	case nodeRetrieve:
		update, err := p.retrieve(stepCtx, question)
		return update, nodeGrade, err
	case nodeGrade:
		update, err := p.grade(stepCtx, question, state.RetrievedDocs)
		if err != nil {
			return core.Update{}, nodeEnd, err
		}
		return update, route(update.Grade), nil
	case nodeWebSearch:
		update, err := p.webSearch(stepCtx, question)
		return update, nodeGenerate, err
	case nodeGenerate:
		update, err := p.generate(stepCtx, turn, question, state)
		return update, nodeUpdateMemory, err
	case nodeUpdateMemory:
		err := p.updateMemory(stepCtx, turn, state)
		return core.Update{}, nodeEnd, err
	default:
		return core.Update{}, nodeEnd, fmt.Errorf("unknown pipeline node %d", n)
	}
}

// Profile exposes the stored student profile for the read-only memory API.
func (p *Pipeline) Profile(ctx context.Context, userID string) (*memory.StudentProfile, error) {
	return p.profiles.Get(ctx, userID)
}
