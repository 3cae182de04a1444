package memory

import (
	"reflect"
	"strings"
	"testing"
)

func TestMergeAppendsTopicsInOrder(t *testing.T) {
	existing := &StudentProfile{TopicsOfInterest: []string{"কবিতা", "ব্যাকরণ"}}
	patch := &StudentProfile{TopicsOfInterest: []string{"ব্যাকরণ", "অপরিচিতা"}}

	merged := Merge(existing, patch)

	want := []string{"কবিতা", "ব্যাকরণ", "অপরিচিতা"}
	if !reflect.DeepEqual(merged.TopicsOfInterest, want) {
		t.Errorf("topics = %v, want %v", merged.TopicsOfInterest, want)
	}
}

func TestMergeFillsGapsAndOverwritesScalars(t *testing.T) {
	existing := &StudentProfile{UserName: "রাফি", LastTopicDiscussed: "কবিতা"}
	patch := &StudentProfile{GradeOrClass: "Class 10", LastTopicDiscussed: "ব্যাকরণ"}

	merged := Merge(existing, patch)

	if merged.UserName != "রাফি" {
		t.Errorf("UserName = %q, empty patch field must not erase it", merged.UserName)
	}
	if merged.GradeOrClass != "Class 10" {
		t.Errorf("GradeOrClass = %q", merged.GradeOrClass)
	}
	if merged.LastTopicDiscussed != "ব্যাকরণ" {
		t.Errorf("LastTopicDiscussed = %q, want the patch value", merged.LastTopicDiscussed)
	}
}

func TestMergeFromNothing(t *testing.T) {
	patch := &StudentProfile{UserName: "মীরা"}
	merged := Merge(nil, patch)
	if merged == nil || merged.UserName != "মীরা" {
		t.Fatalf("merged = %+v", merged)
	}

	// Nil patch still yields a usable record.
	if got := Merge(nil, nil); got == nil || !got.IsZero() {
		t.Fatalf("Merge(nil, nil) = %+v", got)
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	existing := &StudentProfile{TopicsOfInterest: []string{"কবিতা"}}
	patch := &StudentProfile{TopicsOfInterest: []string{"ব্যাকরণ"}}

	Merge(existing, patch)

	if len(existing.TopicsOfInterest) != 1 {
		t.Errorf("existing mutated: %v", existing.TopicsOfInterest)
	}
	if len(patch.TopicsOfInterest) != 1 {
		t.Errorf("patch mutated: %v", patch.TopicsOfInterest)
	}
}

func TestMergeTrimsAndDropsBlankTopics(t *testing.T) {
	merged := Merge(nil, &StudentProfile{TopicsOfInterest: []string{" কবিতা ", "", "  "}})
	want := []string{"কবিতা"}
	if !reflect.DeepEqual(merged.TopicsOfInterest, want) {
		t.Errorf("topics = %v, want %v", merged.TopicsOfInterest, want)
	}
}

func TestFormatForPromptSentinel(t *testing.T) {
	if got := FormatForPrompt(nil); got != NoMemorySentinel {
		t.Errorf("FormatForPrompt(nil) = %q", got)
	}
	if got := FormatForPrompt(&StudentProfile{}); got != NoMemorySentinel {
		t.Errorf("FormatForPrompt(empty) = %q", got)
	}
}

func TestFormatForPromptBlock(t *testing.T) {
	p := &StudentProfile{
		UserName:         "রাফি",
		TopicsOfInterest: []string{"কবিতা", "ব্যাকরণ"},
	}
	got := FormatForPrompt(p)

	if !strings.Contains(got, "ছাত্রের নাম: রাফি") {
		t.Errorf("missing name line: %q", got)
	}
	// Unknown class renders the placeholder, the line is never dropped.
	if !strings.Contains(got, "ছাত্রের শ্রেণি: অজানা") {
		t.Errorf("missing class placeholder: %q", got)
	}
	if !strings.Contains(got, "আগ্রহের বিষয়: কবিতা, ব্যাকরণ") {
		t.Errorf("missing topics line: %q", got)
	}
}

func TestCloneIsDeep(t *testing.T) {
	p := &StudentProfile{TopicsOfInterest: []string{"কবিতা"}}
	c := p.Clone()
	c.TopicsOfInterest[0] = "changed"
	if p.TopicsOfInterest[0] != "কবিতা" {
		t.Error("Clone shares the topics slice")
	}
}
