package models

import (
	"encoding/json"
	"regexp"
	"unicode/utf8"
)

var (
	// user_id: alphanumeric ASCII only
	userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9]+$`)

	// password: visible ASCII, space and control characters excluded
	passwordPattern = regexp.MustCompile(`^[\x21-\x7e]+$`)

	// nickname/comment: any characters except control codes (0x00-0x1F, 0x7F)
	noControlPattern = regexp.MustCompile(`^[^\x00-\x1f\x7f]*$`)
)

// Validation causes surfaced to clients. The first violated rule wins;
// failures are never aggregated.
const (
	CauseRequiredCredentials  = "Required user_id and password"
	CauseIncorrectLength      = "Input length is incorrect"
	CauseIncorrectPattern     = "Incorrect character pattern"
	CauseDuplicateUserID      = "Already same user_id is used"
	CauseRequiredProfileField = "Required nickname or comment"
	CauseProfileFieldInvalid  = "String length limit exceeded or containing invalid characters"
	CauseNotUpdatable         = "Not updatable user_id and password"
)

// ValidationError reports the first violated rule for a payload.
// Message is the client-facing cause; Field is kept for logging.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// rule is a single (predicate, message) pair. Rules are evaluated in
// declaration order and the first failing one is returned.
type rule struct {
	ok      func() bool
	field   string
	message string
}

func firstViolation(rules []rule) *ValidationError {
	for _, r := range rules {
		if !r.ok() {
			return &ValidationError{Field: r.field, Message: r.message}
		}
	}
	return nil
}

// ValidateSignup checks the signup payload: user_id first, then password,
// and within each field presence, then length, then character class.
func ValidateSignup(req *SignupRequest) *ValidationError {
	return firstViolation([]rule{
		{
			ok:      func() bool { return req.UserID != "" },
			field:   "user_id",
			message: CauseRequiredCredentials,
		},
		{
			ok: func() bool {
				n := utf8.RuneCountInString(req.UserID)
				return n >= 6 && n <= 20
			},
			field:   "user_id",
			message: CauseIncorrectLength,
		},
		{
			ok:      func() bool { return userIDPattern.MatchString(req.UserID) },
			field:   "user_id",
			message: CauseIncorrectPattern,
		},
		{
			ok:      func() bool { return req.Password != "" },
			field:   "password",
			message: CauseRequiredCredentials,
		},
		{
			ok: func() bool {
				n := utf8.RuneCountInString(req.Password)
				return n >= 8 && n <= 20
			},
			field:   "password",
			message: CauseIncorrectLength,
		},
		{
			ok:      func() bool { return passwordPattern.MatchString(req.Password) },
			field:   "password",
			message: CauseIncorrectPattern,
		},
	})
}

// UpdateRequest is the decoded PATCH /users/{user_id} payload.
// Presence is tracked separately from values so that a field supplied
// as an empty string (reset to default) is distinguishable from an
// absent field (leave untouched), and so that forbidden keys are
// detected regardless of their value.
type UpdateRequest struct {
	Nickname *string
	Comment  *string

	// set flags record that the key appeared in the payload at all,
	// including null or non-string values
	NicknameSet bool
	CommentSet  bool
	UserIDSet   bool
	PasswordSet bool
}

// ParseUpdateRequest decodes a PATCH payload. A body that is empty or
// not a JSON object parses as a request with no fields present, which
// the validator then rejects.
func ParseUpdateRequest(data []byte) *UpdateRequest {
	req := &UpdateRequest{}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return req
	}

	if raw, ok := fields["nickname"]; ok {
		req.NicknameSet = true
		req.Nickname = decodeString(raw)
	}
	if raw, ok := fields["comment"]; ok {
		req.CommentSet = true
		req.Comment = decodeString(raw)
	}
	_, req.UserIDSet = fields["user_id"]
	_, req.PasswordSet = fields["password"]

	return req
}

// decodeString returns the decoded string, or nil for null and
// non-string values (which fail the field constraint downstream).
func decodeString(raw json.RawMessage) *string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}

// ValidateUpdate checks the update payload. Rule order matches the
// reference contract: field presence first, then per-field constraints,
// then the not-updatable keys.
func ValidateUpdate(req *UpdateRequest) *ValidationError {
	return firstViolation([]rule{
		{
			ok:      func() bool { return req.NicknameSet || req.CommentSet },
			field:   "nickname",
			message: CauseRequiredProfileField,
		},
		{
			ok:      func() bool { return !req.NicknameSet || validProfileField(req.Nickname, 30) },
			field:   "nickname",
			message: CauseProfileFieldInvalid,
		},
		{
			ok:      func() bool { return !req.CommentSet || validProfileField(req.Comment, 100) },
			field:   "comment",
			message: CauseProfileFieldInvalid,
		},
		{
			ok:      func() bool { return !req.UserIDSet },
			field:   "user_id",
			message: CauseNotUpdatable,
		},
		{
			ok:      func() bool { return !req.PasswordSet },
			field:   "password",
			message: CauseNotUpdatable,
		},
	})
}

func validProfileField(value *string, maxLen int) bool {
	if value == nil {
		return false
	}
	if utf8.RuneCountInString(*value) > maxLen {
		return false
	}
	return noControlPattern.MatchString(*value)
}

// ValidNickname reports whether a nickname satisfies the stored-field
// constraints (at most 30 runes, no control characters)
func ValidNickname(s string) bool {
	return validProfileField(&s, 30)
}

// ValidComment reports whether a comment satisfies the stored-field
// constraints (at most 100 runes, no control characters)
func ValidComment(s string) bool {
	return validProfileField(&s, 100)
}
