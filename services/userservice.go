package services

import (
	"context"
	"errors"

	"taskpanel/model"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken  = errors.New("email already registered")
	ErrInvalidRole = errors.New("invalid role")
)

// NewUser carries the fields of a user to create. Password is the plain
// text; it is hashed before storage.
type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      model.Role
}

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*model.User, error) {
	return s.users.FindUserByID(ctx, id)
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.users.FindUserByEmail(ctx, email)
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.FindUsers(ctx)
}

func (s *UserService) Create(ctx context.Context, in NewUser) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, ErrInvalidRole
	}

	if _, err := s.users.FindUserByEmail(ctx, in.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Role:      in.Role,
		Password:  string(hash),
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
