package domain

// Allowed ranges for request fields
const (
	MinAge          = 1
	MaxAge          = 120
	MaxConcernScore = 10
)

// UserProfile carries the per-request user attributes. Never persisted.
type UserProfile struct {
	Age                 int   `json:"age"`
	GenderEnc           int   `json:"gender_enc"`
	ParentEnc           int   `json:"parent_enc"`
	ConcernScore        *int  `json:"concern_score,omitempty"`
	HasRespiratoryIssue *bool `json:"has_respiratory_issue,omitempty"`
}

// Validate checks every field against its allowed domain
func (p UserProfile) Validate() error {
	if p.Age < MinAge || p.Age > MaxAge {
		return &ValidationError{Field: "age", Reason: "Invalid age. Must be between 1 and 120"}
	}
	switch p.GenderEnc {
	case 0, 1, 2:
	default:
		return &ValidationError{Field: "gender_enc", Reason: "Invalid gender. Must be 0 (Female), 1 (Male), or 2 (Other)"}
	}
	switch p.ParentEnc {
	case 0, 1:
	default:
		return &ValidationError{Field: "parent_enc", Reason: "Invalid parent status. Must be 0 (No) or 1 (Yes)"}
	}
	if p.ConcernScore != nil && (*p.ConcernScore < 0 || *p.ConcernScore > MaxConcernScore) {
		return &ValidationError{Field: "concern_score", Reason: "Invalid concern score. Must be between 0 and 10"}
	}
	return nil
}

// IsParent reports whether the user declared being a parent
func (p UserProfile) IsParent() bool {
	return p.ParentEnc == 1
}
