package users

import (
	"context"
	"errors"
)

var (
	ErrEmptyName       = errors.New("user name is required")
	ErrDuplicateUserID = errors.New("user id already exists")
)

type Store interface {
	CreateUser(ctx context.Context, user User) error
	ListUsers(ctx context.Context) ([]User, error)
	DeleteUser(ctx context.Context, userID string) (bool, error)
}
