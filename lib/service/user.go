package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/ledger"
	"github.com/assethub/assethub.go/lib/money"
	"github.com/assethub/assethub.go/lib/security"
	passwordvalidator "github.com/wagslane/go-password-validator"
)

var ErrLoginTaken = errors.New("login already taken")

type CreateUserParams struct {
	Login     string
	Password  string
	Role      string
	FirstName string
	LastName  string
	Email     string
}

// CreateUser registers an account holder. Logins are stored lowercase so
// the same name cannot be registered twice with different casing.
func (svc *AssethubService) CreateUser(ctx context.Context, params CreateUserParams) (user *models.User, err error) {
	login := strings.ToLower(strings.TrimSpace(params.Login))
	if login == "" || params.Password == "" {
		return nil, fmt.Errorf("login and password are required")
	}
	if svc.Config.MinPasswordEntropy > 0 {
		entropy := passwordvalidator.GetEntropy(params.Password)
		if entropy < float64(svc.Config.MinPasswordEntropy) {
			return nil, fmt.Errorf("password entropy is too low (%f), required is %d", entropy, svc.Config.MinPasswordEntropy)
		}
	}

	taken, err := svc.UserExists(ctx, login)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrLoginTaken
	}

	user = &models.User{
		Login:     login,
		Password:  security.HashPassword(params.Password),
		Role:      params.Role,
		FirstName: params.FirstName,
		LastName:  params.LastName,
		Email:     params.Email,
	}
	if _, err := svc.DB.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, err
	}
	return user, nil
}

func (svc *AssethubService) FindUser(ctx context.Context, userId int64) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("id = ?", userId).Limit(1).Scan(ctx)
	if err != nil {
		return &user, err
	}
	return &user, nil
}

func (svc *AssethubService) FindUserByLogin(ctx context.Context, login string) (*models.User, error) {
	var user models.User

	err := svc.DB.NewSelect().Model(&user).Where("login = ?", strings.ToLower(login)).Limit(1).Scan(ctx)
	if err != nil {
		return &user, err
	}
	return &user, nil
}

func (svc *AssethubService) UserExists(ctx context.Context, login string) (bool, error) {
	exists, err := svc.DB.NewSelect().Model((*models.User)(nil)).Where("login = ?", strings.ToLower(login)).Exists(ctx)
	if err != nil && err != sql.ErrNoRows {
		return false, err
	}
	return exists, nil
}

// HasUsers reports whether any account has been registered yet. The open
// admin bootstrap endpoint closes as soon as this returns true.
func (svc *AssethubService) HasUsers(ctx context.Context) (bool, error) {
	count, err := svc.DB.NewSelect().Model((*models.User)(nil)).Count(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// AdjustBalance mints or burns funds for a registered user. The target
// must exist as a user, unlike transfer receivers which may be any
// account name.
func (svc *AssethubService) AdjustBalance(ctx context.Context, username, symbol string, delta money.Amount, direction string) error {
	exists, err := svc.UserExists(ctx, username)
	if err != nil {
		return err
	}
	if !exists {
		return ledger.ErrAccountNotFound
	}
	return svc.Ledger.Adjust(ctx, username, symbol, delta, direction)
}
