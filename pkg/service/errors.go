package service

import (
	"errors"
	"fmt"
)

var ErrInactiveService = errors.New("service is inactive")

type NotFoundError struct {
	ServiceName string
}

func NewNotFoundError(serviceName string) *NotFoundError {
	return &NotFoundError{
		ServiceName: serviceName,
	}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("service %s not found", e.ServiceName)
}

type UnsupportedInitError struct {
	Init string
}

func NewUnsupportedInitError(init string) *UnsupportedInitError {
	return &UnsupportedInitError{Init: init}
}

func (e *UnsupportedInitError) Error() string {
	return fmt.Sprintf("unsupported init system '%s', systemd is required", e.Init)
}
