package domain

import (
	"fmt"
	"strings"
)

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCourier Role = "COURIER"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToUpper(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleManager, RoleCourier:
		return r, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, s)
}

type User struct {
	ID       int64
	Login    string
	FullName string
	Role     Role
}

func (u User) IsCourier() bool { return u.Role == RoleCourier }
