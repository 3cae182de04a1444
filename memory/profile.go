// Package memory holds the durable per-user student profile: the record
// itself, the merge law, the LLM-backed extractor that updates it, and the
// keyed store capability it lives in.
package memory

import (
	"fmt"
	"strings"
)

// StudentProfile personalizes answers for a user. All text fields are kept in
// Bengali regardless of the language the user wrote in — that normalization
// is a contract on the extraction prompt, not on this struct.
type StudentProfile struct {
	// UserName is the student's name, if they ever mentioned it.
	UserName string `json:"user_name,omitempty"`
	// GradeOrClass is the academic grade or class (e.g. "Class 10", "HSC Candidate").
	GradeOrClass string `json:"grade_or_class,omitempty"`
	// TopicsOfInterest grows monotonically; new topics append, duplicates are dropped.
	TopicsOfInterest []string `json:"topics_of_interest,omitempty"`
	// LastTopicDiscussed is overwritten on every update.
	LastTopicDiscussed string `json:"last_topic_discussed,omitempty"`
}

// IsZero reports whether the profile carries no information.
func (p *StudentProfile) IsZero() bool {
	return p == nil ||
		(p.UserName == "" && p.GradeOrClass == "" &&
			len(p.TopicsOfInterest) == 0 && p.LastTopicDiscussed == "")
}

// Clone returns a deep copy.
func (p *StudentProfile) Clone() *StudentProfile {
	if p == nil {
		return nil
	}
	out := *p
	if p.TopicsOfInterest != nil {
		out.TopicsOfInterest = make([]string, len(p.TopicsOfInterest))
		copy(out.TopicsOfInterest, p.TopicsOfInterest)
	}
	return &out
}

// Merge applies a freshly extracted patch onto an existing profile and
// returns the merged record. Scalar fields take the patch value when the
// patch provides one (the extractor saw the existing profile, so a non-empty
// patch value is the more recent fact); topics append in encounter order with
// duplicates dropped; LastTopicDiscussed is overwritten when present.
func Merge(existing, patch *StudentProfile) *StudentProfile {
	merged := existing.Clone()
	if merged == nil {
		merged = &StudentProfile{}
	}
	if patch == nil {
		return merged
	}

	if patch.UserName != "" {
		merged.UserName = patch.UserName
	}
	if patch.GradeOrClass != "" {
		merged.GradeOrClass = patch.GradeOrClass
	}
	if patch.LastTopicDiscussed != "" {
		merged.LastTopicDiscussed = patch.LastTopicDiscussed
	}

	seen := make(map[string]bool, len(merged.TopicsOfInterest))
	for _, t := range merged.TopicsOfInterest {
		seen[t] = true
	}
	for _, t := range patch.TopicsOfInterest {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		merged.TopicsOfInterest = append(merged.TopicsOfInterest, t)
	}

	return merged
}

// NoMemorySentinel is rendered into the generation prompt for users with no
// stored profile. The block is never omitted, even for a brand-new user.
const NoMemorySentinel = "এই ছাত্রের জন্য কোনো স্মৃতি এখনো জমা হয়নি।"

// FormatForPrompt renders the profile as the fixed-format Bengali memory
// block the generator injects into its prompt.
func FormatForPrompt(p *StudentProfile) string {
	if p.IsZero() {
		return NoMemorySentinel
	}

	name := p.UserName
	if name == "" {
		name = "অজানা"
	}
	class := p.GradeOrClass
	if class == "" {
		class = "অজানা"
	}
	topics := "কিছুই না"
	if len(p.TopicsOfInterest) > 0 {
		topics = strings.Join(p.TopicsOfInterest, ", ")
	}

	return fmt.Sprintf("ছাত্রের নাম: %s\nছাত্রের শ্রেণি: %s\nআগ্রহের বিষয়: %s", name, class, topics)
}
