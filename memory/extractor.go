package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/sahayak-ai/sahayak/core"
	"github.com/sahayak-ai/sahayak/llm"
)

const extractionInstruction = "Based on the user's message, extract or update the student's profile. " +
	"If an existing profile is provided, merge the new information into it. " +
	"Crucially, all extracted text for 'topics_of_interest' and 'last_topic_discussed' MUST be in the Bengali (Bangla) language. " +
	"If the message contains no profile information at all, call the tool with an empty object."

// profileToolSpec is the single target schema for structured extraction.
func profileToolSpec() llm.ToolSpec {
	return llm.ToolSpec{
		Name:        "student_profile",
		Description: "A profile for a student user to personalize interactions.",
		InputSchema: llm.ObjectSchema(map[string]interface{}{
			"user_name":      llm.StringProperty("The student's name, if they mention it."),
			"grade_or_class": llm.StringProperty("The student's academic grade or class (e.g., 'Class 10', 'HSC Candidate')."),
			"topics_of_interest": llm.ArrayProperty(
				"Subjects or specific topics the student has asked about (e.g., 'কবিতা', 'অপরিচিতা', 'ব্যাকরণ').",
				llm.StringProperty("A topic, in Bengali."),
			),
			"last_topic_discussed": llm.StringProperty("The main topic of the last question asked by the user."),
		}),
	}
}

// Updater is the memory extractor/merger: it derives a profile patch from the
// latest user message and read-modify-writes the merged record.
type Updater struct {
	llm   llm.Client
	store ProfileStore
}

func NewUpdater(client llm.Client, store ProfileStore) *Updater {
	return &Updater{llm: client, store: store}
}

// Update runs one extraction against lastUserMessage and persists the merged
// profile. An extraction that yields no candidate leaves the store untouched
// and is not an error. Store failures come back wrapped in core.ErrStore so
// the caller can treat the write as best-effort; extraction failures come
// back wrapped in core.ErrExtraction.
func (u *Updater) Update(ctx context.Context, userID, lastUserMessage string) error {
	existing, err := u.store.Get(ctx, userID)
	if err != nil {
		return fmt.Errorf("%w: read profile for %s: %v", core.ErrStore, userID, err)
	}

	prompt := lastUserMessage
	if existing != nil {
		// The extractor sees the current record so its patch is incremental
		// rather than a destructive overwrite.
		existingJSON, err := json.Marshal(existing)
		if err != nil {
			return fmt.Errorf("%w: encode existing profile: %v", core.ErrExtraction, err)
		}
		prompt = fmt.Sprintf("Existing profile:\n%s\n\nUser message:\n%s", existingJSON, lastUserMessage)
	}

	raw, err := u.llm.ExtractTool(ctx, extractionInstruction, prompt, profileToolSpec())
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}

	patch, ok, err := decodePatch(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", core.ErrExtraction, err)
	}
	if !ok {
		log.Printf("[MEMORY] user=%s no profile information found, store untouched", userID)
		return nil
	}

	merged := Merge(existing, patch)
	if err := u.store.Put(ctx, userID, merged); err != nil {
		return fmt.Errorf("%w: write profile for %s: %v", core.ErrStore, userID, err)
	}

	log.Printf("[MEMORY] user=%s profile updated (topics=%d)", userID, len(merged.TopicsOfInterest))
	return nil
}

// decodePatch parses the extractor's raw tool input. Empty or null objects
// are the valid "no candidate" result.
func decodePatch(raw json.RawMessage) (*StudentProfile, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}")) {
		return nil, false, nil
	}

	var patch StudentProfile
	if err := json.Unmarshal(trimmed, &patch); err != nil {
		return nil, false, fmt.Errorf("decode profile patch: %v", err)
	}
	if patch.IsZero() {
		return nil, false, nil
	}
	return &patch, true, nil
}
