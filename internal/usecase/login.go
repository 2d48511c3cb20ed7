package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

type LoginUseCase struct {
	Users  entity.UserRepositoryInterface
	Hasher PasswordHasher
	Tokens TokenIssuer
}

func NewLoginUseCase(users entity.UserRepositoryInterface, hasher PasswordHasher, tokens TokenIssuer) *LoginUseCase {
	return &LoginUseCase{Users: users, Hasher: hasher, Tokens: tokens}
}

// Execute never tells the caller whether the email or the password was wrong.
func (uc *LoginUseCase) Execute(ctx context.Context, input LoginInput) (*LoginOutput, error) {
	if strings.TrimSpace(input.Email) == "" || input.Password == "" {
		return nil, InvalidArgument("email and password are required")
	}

	user, err := uc.Users.FindByEmail(ctx, entity.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, Unauthorized("invalid credentials")
		}
		return nil, DatabaseError("failed to load user", err)
	}
	if !uc.Hasher.Verify(input.Password, user.PasswordHash) {
		log.Warn().Str("user_id", user.ID).Msg("login rejected: wrong password")
		return nil, Unauthorized("invalid credentials")
	}

	token, expiresAt, err := uc.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, DependencyFailure("failed to issue token", err)
	}

	return &LoginOutput{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
		User:        user,
	}, nil
}
