package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/sahayak-ai/sahayak/core"
	"github.com/sahayak-ai/sahayak/llm"
)

const gradeInstruction = "You are a grader assessing the relevance of retrieved documents to a user question. " +
	"If the documents contain keywords or semantic meaning related to the question, grade them as relevant. " +
	"Give a binary output: 'yes' if the documents are relevant to the question, 'no' if they are not."

func gradeToolSpec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "grade",
		Description: "Binary relevance verdict for retrieved documents.",
		InputSchema: llm.ObjectSchema(map[string]interface{}{
			"binary_output": llm.StringEnumProperty(
				"Whether the documents are relevant to the question.",
				"yes", "no",
			),
		}, "binary_output"),
	}
}

// retrieve queries the vector store for the question. An empty result is not
// an error; the grader will route it to web fallback.
func (p *Pipeline) retrieve(ctx context.Context, question string) (core.Update, error) {
	snippets, err := p.retriever.Search(ctx, question)
	if err != nil {
		return core.Update{}, fmt.Errorf("%w: %v", core.ErrRetrieval, err)
	}

	docs := make([]string, 0, len(snippets))
	for _, s := range snippets {
		docs = append(docs, s.Text)
	}
	log.Printf("[PIPELINE] retrieved %d documents", len(docs))
	// RetrievedDocs must be non-nil so the empty result still replaces any
	// stale scratch in the state.
	return core.Update{RetrievedDocs: docs}, nil
}

// grade classifies the retrieved documents as relevant or not. Nothing
// retrieved short-circuits to not-relevant without a model call.
func (p *Pipeline) grade(ctx context.Context, question string, docs []string) (core.Update, error) {
	if len(docs) == 0 {
		log.Printf("[PIPELINE] nothing retrieved, grading as not relevant")
		return core.Update{Grade: core.GradeNotRelevant}, nil
	}

	prompt := fmt.Sprintf("Retrieved documents:\n%s\n\nUser question: %s", joinDocs(docs), question)
	raw, err := p.llm.ExtractTool(ctx, gradeInstruction, prompt, gradeToolSpec())
	if err != nil {
		return core.Update{}, fmt.Errorf("%w: %v", core.ErrGrading, err)
	}

	var verdict struct {
		BinaryOutput string `json:"binary_output"`
	}
	if err := json.Unmarshal(raw, &verdict); err != nil {
		return core.Update{}, fmt.Errorf("%w: decode verdict: %v", core.ErrGrading, err)
	}

	grade, err := core.ParseGrade(verdict.BinaryOutput)
	if err != nil {
		return core.Update{}, fmt.Errorf("%w: %v", core.ErrGrading, err)
	}

	log.Printf("[PIPELINE] graded documents as %s", grade)
	return core.Update{Grade: grade}, nil
}

// webSearch fetches fallback context. The search client guarantees a
// non-empty text block, so WebDocs is always set after this step.
func (p *Pipeline) webSearch(ctx context.Context, question string) (core.Update, error) {
	result, err := p.search.Search(ctx, question)
	if err != nil {
		return core.Update{}, fmt.Errorf("%w: %v", core.ErrSearch, err)
	}

	log.Printf("[PIPELINE] web fallback returned %d bytes", len(result))
	return core.Update{WebDocs: result}, nil
}

// updateMemory extracts profile facts from the user message that started this
// turn. A store failure is logged and swallowed: the answer already exists, so
// losing one memory write must not fail the turn.
func (p *Pipeline) updateMemory(ctx context.Context, turn core.TurnContext, state core.State) error {
	question, ok := lastUserContent(state)
	if !ok {
		log.Printf("[PIPELINE] user=%s no user message in state, skipping memory update", turn.UserID)
		return nil
	}

	if err := p.updater.Update(ctx, turn.UserID, question); err != nil {
		if errors.Is(err, core.ErrStore) {
			log.Printf("[PIPELINE] user=%s memory write failed, answer unaffected: %v", turn.UserID, err)
			return nil
		}
		return err
	}
	return nil
}

// lastUserContent scans backwards for the most recent user message. By the
// time memory update runs the tail is the assistant answer, so this is
// normally Messages[len-2].
func lastUserContent(state core.State) (string, bool) {
	for i := len(state.Messages) - 1; i >= 0; i-- {
		if state.Messages[i].Role == core.RoleUser {
			return state.Messages[i].Content, true
		}
	}
	return "", false
}
