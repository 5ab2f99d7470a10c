package service

import (
	"context"
	"fmt"

	"github.com/assethub/assethub.go/db/models"
	"github.com/assethub/assethub.go/lib/ledger"
	"github.com/assethub/assethub.go/lib/tokens"
	"github.com/assethub/assethub.go/rabbitmq"
	"github.com/uptrace/bun"
	"github.com/ziflex/lecho/v3"
	"golang.org/x/crypto/bcrypt"
)

type AssethubService struct {
	Config         *Config
	DB             *bun.DB
	Ledger         *ledger.Engine
	Logger         *lecho.Logger
	RabbitMQClient rabbitmq.Client
}

func (svc *AssethubService) GenerateToken(ctx context.Context, login, password, inRefreshToken string) (accessToken, refreshToken string, err error) {
	var user *models.User

	switch {
	case login != "" || password != "":
		{
			user, err = svc.FindUserByLogin(ctx, login)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	case inRefreshToken != "":
		{
			userID, err := tokens.ParseRefreshClaims(svc.Config.JWTSecret, inRefreshToken)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
			user, err = svc.FindUser(ctx, userID)
			if err != nil {
				return "", "", fmt.Errorf("bad auth")
			}
		}
	default:
		{
			return "", "", fmt.Errorf("login and password or refresh token is required")
		}
	}

	accessToken, err = tokens.GenerateAccessToken(svc.Config.JWTSecret, svc.Config.JWTAccessTokenExpiry, user)
	if err != nil {
		return "", "", err
	}

	refreshToken, err = tokens.GenerateRefreshToken(svc.Config.JWTSecret, svc.Config.JWTRefreshTokenExpiry, user)
	if err != nil {
		return "", "", err
	}
	return accessToken, refreshToken, nil
}

// PublishTransaction pushes a committed transfer to rabbitmq. Publishing
// is best effort, a broker outage must never fail the transfer itself.
func (svc *AssethubService) PublishTransaction(ctx context.Context, txn *models.Transaction) {
	if svc.RabbitMQClient == nil {
		return
	}
	if err := svc.RabbitMQClient.PublishTransaction(ctx, txn); err != nil {
		svc.Logger.Errorf("Failed to publish transaction %v: %v", txn.ID, err)
	}
}
