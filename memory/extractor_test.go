package memory

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/sahayak-ai/sahayak/core"
	"github.com/sahayak-ai/sahayak/llm"
)

type mapStore struct {
	profiles map[string]*StudentProfile
	getErr   error
	putErr   error
	puts     int
}

func newMapStore() *mapStore {
	return &mapStore{profiles: make(map[string]*StudentProfile)}
}

func (s *mapStore) Get(ctx context.Context, userID string) (*StudentProfile, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.profiles[userID].Clone(), nil
}

func (s *mapStore) Put(ctx context.Context, userID string, p *StudentProfile) error {
	if s.putErr != nil {
		return s.putErr
	}
	s.puts++
	s.profiles[userID] = p.Clone()
	return nil
}

func extractorReturning(raw string) *llm.Mock {
	mock := llm.NewMock()
	mock.ExtractFunc = func(system, prompt string, tool llm.ToolSpec) (json.RawMessage, error) {
		return json.RawMessage(raw), nil
	}
	return mock
}

func TestUpdateCreatesProfile(t *testing.T) {
	store := newMapStore()
	u := NewUpdater(extractorReturning(`{"user_name": "রাফি", "topics_of_interest": ["কবিতা"]}`), store)

	if err := u.Update(context.Background(), "u1", "আমার নাম রাফি, কবিতা ভালো লাগে"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	p := store.profiles["u1"]
	if p == nil || p.UserName != "রাফি" {
		t.Fatalf("stored profile = %+v", p)
	}
}

func TestUpdateMergesIntoExisting(t *testing.T) {
	store := newMapStore()
	store.profiles["u1"] = &StudentProfile{UserName: "রাফি", TopicsOfInterest: []string{"কবিতা"}}

	u := NewUpdater(extractorReturning(`{"topics_of_interest": ["ব্যাকরণ"], "last_topic_discussed": "ব্যাকরণ"}`), store)
	if err := u.Update(context.Background(), "u1", "ব্যাকরণ নিয়ে প্রশ্ন"); err != nil {
		t.Fatalf("Update: %v", err)
	}

	p := store.profiles["u1"]
	if p.UserName != "রাফি" {
		t.Errorf("UserName lost in merge: %+v", p)
	}
	if len(p.TopicsOfInterest) != 2 {
		t.Errorf("topics = %v", p.TopicsOfInterest)
	}
	if p.LastTopicDiscussed != "ব্যাকরণ" {
		t.Errorf("LastTopicDiscussed = %q", p.LastTopicDiscussed)
	}
}

func TestUpdatePromptIncludesExistingProfile(t *testing.T) {
	store := newMapStore()
	store.profiles["u1"] = &StudentProfile{UserName: "রাফি"}

	mock := extractorReturning(`{}`)
	u := NewUpdater(mock, store)
	if err := u.Update(context.Background(), "u1", "new message"); err != nil {
		t.Fatal(err)
	}

	if len(mock.ExtractCalls) != 1 {
		t.Fatalf("extract calls = %d", len(mock.ExtractCalls))
	}
	prompt := mock.ExtractCalls[0]
	if !strings.Contains(prompt, "রাফি") || !strings.Contains(prompt, "new message") {
		t.Errorf("prompt missing existing profile or message:\n%s", prompt)
	}
}

func TestUpdateNoCandidateLeavesStoreUntouched(t *testing.T) {
	for _, raw := range []string{`{}`, `null`, ``, `{"user_name": "", "topics_of_interest": []}`} {
		store := newMapStore()
		u := NewUpdater(extractorReturning(raw), store)

		if err := u.Update(context.Background(), "u1", "what is gravity?"); err != nil {
			t.Fatalf("raw %q: %v", raw, err)
		}
		if store.puts != 0 {
			t.Errorf("raw %q: store written %d times", raw, store.puts)
		}
	}
}

func TestUpdateExtractionFailure(t *testing.T) {
	mock := llm.NewMock()
	mock.ExtractFunc = func(system, prompt string, tool llm.ToolSpec) (json.RawMessage, error) {
		return nil, errors.New("model unavailable")
	}

	u := NewUpdater(mock, newMapStore())
	err := u.Update(context.Background(), "u1", "message")
	if !errors.Is(err, core.ErrExtraction) {
		t.Fatalf("err = %v, want ErrExtraction", err)
	}
}

func TestUpdateMalformedPatch(t *testing.T) {
	u := NewUpdater(extractorReturning(`{"user_name": 42}`), newMapStore())
	err := u.Update(context.Background(), "u1", "message")
	if !errors.Is(err, core.ErrExtraction) {
		t.Fatalf("err = %v, want ErrExtraction", err)
	}
}

func TestUpdateStoreFailuresWrapErrStore(t *testing.T) {
	store := newMapStore()
	store.getErr = errors.New("db gone")
	u := NewUpdater(extractorReturning(`{"user_name": "রাফি"}`), store)
	if err := u.Update(context.Background(), "u1", "m"); !errors.Is(err, core.ErrStore) {
		t.Fatalf("get err = %v, want ErrStore", err)
	}

	store = newMapStore()
	store.putErr = errors.New("disk full")
	u = NewUpdater(extractorReturning(`{"user_name": "রাফি"}`), store)
	if err := u.Update(context.Background(), "u1", "m"); !errors.Is(err, core.ErrStore) {
		t.Fatalf("put err = %v, want ErrStore", err)
	}
}
