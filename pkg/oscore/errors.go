package oscore

import "strings"

const (
	defaultGrowSize = 64
)

type UserNotFoundError struct {
	name string
}

func NewUserNotFoundError(userName string) *UserNotFoundError {
	return &UserNotFoundError{name: userName}
}

func (e *UserNotFoundError) Error() string {
	sb := strings.Builder{}
	sb.Grow(defaultGrowSize)

	sb.WriteString("user ")
	sb.WriteString(e.name)
	sb.WriteString(" does not exist")

	return sb.String()
}

func (e *UserNotFoundError) Username() string {
	return e.name
}
