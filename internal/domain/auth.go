package domain

// SubjectType identifies who a token was issued to.
type SubjectType string

const (
	SubjectTypeAdmin SubjectType = "ADMIN"
	SubjectTypeUser  SubjectType = "USER"
)
