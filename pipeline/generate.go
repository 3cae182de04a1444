package pipeline

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/sahayak-ai/sahayak/core"
	"github.com/sahayak-ai/sahayak/memory"
)

const generateSystem = "You are a friendly and encouraging AI tutor for Bengali students. " +
	"Answer the student's question using ONLY the provided context. " +
	"Use the student's memory to personalize the answer: greet them by name if known, " +
	"and connect the answer to their class level and interests where natural.\n\n" +
	"Rules:\n" +
	"- Answer in the same language the question was asked in (Bengali or English).\n" +
	"- If the context does not contain enough information to answer, reply with exactly this sentence and nothing else.\n" +
	"  In Bengali: " + RefusalBengali + "\n" +
	"  In English: " + RefusalEnglish + "\n" +
	"- Do not invent facts that are not in the context."

const generateTemplate = `Student memory:
%s

Context:
%s

Question: %s

Answer (personalized and in the same language as the question):`

// buildContext selects the context block for generation. Web fallback results
// take strict priority: when WebDocs is set the retrieved documents are
// ignored entirely, never mixed in.
func buildContext(state core.State) string {
	if state.WebDocs != "" {
		return state.WebDocs
	}
	return joinDocs(state.RetrievedDocs)
}

func joinDocs(docs []string) string {
	return strings.Join(docs, "\n\n")
}

// generate produces the assistant answer from memory plus context and appends
// it to the conversation.
func (p *Pipeline) generate(ctx context.Context, turn core.TurnContext, question string, state core.State) (core.Update, error) {
	profile, err := p.profiles.Get(ctx, turn.UserID)
	if err != nil {
		return core.Update{}, fmt.Errorf("%w: read profile for %s: %v", core.ErrGeneration, turn.UserID, err)
	}

	prompt := fmt.Sprintf(generateTemplate, memory.FormatForPrompt(profile), buildContext(state), question)

	answer, err := p.llm.Complete(ctx, generateSystem, prompt)
	if err != nil {
		return core.Update{}, fmt.Errorf("%w: %v", core.ErrGeneration, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		// A blank completion is useless to the user; fall back to the
		// language-matched refusal instead of storing an empty message.
		answer = Refusal(DetectLanguage(question))
		log.Printf("[PIPELINE] user=%s empty completion, answering with refusal", turn.UserID)
	}

	return core.Update{Messages: []core.Message{core.NewAssistantMessage(answer)}}, nil
}
