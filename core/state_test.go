package core

import "testing"

func TestApplyMergeSemantics(t *testing.T) {
	var s State
	s.Apply(Update{Messages: []Message{NewUserMessage("q1")}})
	s.Apply(Update{RetrievedDocs: []string{"d1", "d2"}})
	s.Apply(Update{Grade: GradeRelevant})
	s.Apply(Update{Messages: []Message{NewAssistantMessage("a1")}})

	if len(s.Messages) != 2 {
		t.Fatalf("messages = %d, want 2 (append, never replace)", len(s.Messages))
	}
	if len(s.RetrievedDocs) != 2 || s.Grade != GradeRelevant {
		t.Fatalf("state = %+v", s)
	}

	// Scalar fields replace; zero values are no-ops.
	s.Apply(Update{RetrievedDocs: []string{"d3"}})
	if len(s.RetrievedDocs) != 1 {
		t.Errorf("RetrievedDocs = %v, want replaced", s.RetrievedDocs)
	}
	s.Apply(Update{})
	if len(s.RetrievedDocs) != 1 || s.Grade != GradeRelevant {
		t.Errorf("zero update changed state: %+v", s)
	}

	// A non-nil empty slice still replaces.
	s.Apply(Update{RetrievedDocs: []string{}})
	if len(s.RetrievedDocs) != 0 {
		t.Errorf("empty replacement ignored: %v", s.RetrievedDocs)
	}
}

func TestResetTurnKeepsHistory(t *testing.T) {
	s := State{
		Messages:      []Message{NewUserMessage("q"), NewAssistantMessage("a")},
		RetrievedDocs: []string{"d"},
		Grade:         GradeNotRelevant,
		WebDocs:       "w",
	}
	s.ResetTurn()

	if len(s.Messages) != 2 {
		t.Errorf("ResetTurn dropped messages: %d", len(s.Messages))
	}
	if s.RetrievedDocs != nil || s.Grade != GradeUnknown || s.WebDocs != "" {
		t.Errorf("scratch not cleared: %+v", s)
	}
}

func TestCloneIsDeep(t *testing.T) {
	s := State{
		Messages:      []Message{NewUserMessage("q")},
		RetrievedDocs: []string{"d"},
	}
	c := s.Clone()
	c.Messages[0].Content = "mutated"
	c.RetrievedDocs[0] = "mutated"

	if s.Messages[0].Content != "q" || s.RetrievedDocs[0] != "d" {
		t.Fatalf("Clone shares slices: %+v", s)
	}
}

func TestParseGrade(t *testing.T) {
	if g, err := ParseGrade("yes"); err != nil || g != GradeRelevant {
		t.Errorf("ParseGrade(yes) = %v, %v", g, err)
	}
	if g, err := ParseGrade("no"); err != nil || g != GradeNotRelevant {
		t.Errorf("ParseGrade(no) = %v, %v", g, err)
	}
	for _, bad := range []string{"", "maybe", "Yes", "NO"} {
		if _, err := ParseGrade(bad); err == nil {
			t.Errorf("ParseGrade(%q) accepted", bad)
		}
	}
}
