package install

import (
	"fmt"
	"strconv"
)

type PrivilegeError struct {
	EUID int
}

func (e *PrivilegeError) Error() string {
	return "must be run as root (effective uid " + strconv.Itoa(e.EUID) + ")"
}

type MissingDependencyError struct {
	Tool string
}

func NewMissingDependencyError(tool string) *MissingDependencyError {
	return &MissingDependencyError{Tool: tool}
}

func (e *MissingDependencyError) Error() string {
	return fmt.Sprintf("%s not found in PATH and no supported package manager is available", e.Tool)
}
