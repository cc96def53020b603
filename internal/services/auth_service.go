package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"travelhub/internal/auth"
	"travelhub/internal/domain"
	"travelhub/internal/notify"
	"travelhub/internal/repos"
	"travelhub/internal/validate"
)

type RegisterInput struct {
	Username  string `json:"username" validate:"required,alphanum,max=150"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type AuthService struct {
	Users  *repos.UserRepo
	Tokens *auth.Issuer
	Events notify.Sink
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	verr := &domain.ValidationError{}
	verr.Merge(validate.Struct(in))
	if in.Password != "" && !validate.Password(in.Password) {
		verr.Add("password", "Password must be 8-64 characters and contain upper and lower case letters, a digit and a symbol.")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	t := now()
	u := &domain.User{
		ID:        uuid.NewString(),
		Username:  in.Username,
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Hash:      string(hash),
		Role:      domain.RoleUser,
		CreatedAt: t,
		UpdatedAt: t,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		if errors.Is(err, repos.ErrDuplicate) {
			return nil, domain.NewFieldError("username", "A user with that username or email already exists.")
		}
		return nil, err
	}
	emit(ctx, s.Events, notify.Event{Kind: notify.UserRegistered, UserID: u.ID, Username: u.Username})
	return u, nil
}

// Login checks credentials and issues a bearer token. Unknown users and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Token, *domain.User, error) {
	u, err := s.Users.ByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil, domain.ErrBadCredentials
		}
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, u, domain.ErrBadCredentials
	}
	tok, err := s.Tokens.Issue(u)
	if err != nil {
		return nil, u, err
	}
	return &Token{AccessToken: tok, TokenType: "Bearer", ExpiresIn: int(s.Tokens.TTL().Seconds())}, u, nil
}

// Authenticate resolves a bearer token to its user.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.Tokens.Parse(token)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	u, err := s.Users.ByID(ctx, claims.Sub)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

func (s *AuthService) CurrentUser(ctx context.Context, id string) (*domain.User, error) {
	return s.Users.ByID(ctx, id)
}
