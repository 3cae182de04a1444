package core

import "fmt"

// Grade is the relevance verdict on retrieved context. It is a closed union
// so that routing is a typed decision rather than a string comparison.
type Grade int

const (
	// GradeUnknown means the grader has not run yet this turn.
	GradeUnknown Grade = iota
	GradeRelevant
	GradeNotRelevant
)

func (g Grade) String() string {
	switch g {
	case GradeRelevant:
		return "relevant"
	case GradeNotRelevant:
		return "not_relevant"
	default:
		return "unknown"
	}
}

// ParseGrade converts the classifier's wire value ("yes"/"no") into a Grade.
func ParseGrade(s string) (Grade, error) {
	switch s {
	case "yes":
		return GradeRelevant, nil
	case "no":
		return GradeNotRelevant, nil
	default:
		return GradeUnknown, fmt.Errorf("unrecognized grade %q", s)
	}
}
