package service

import (
	"context"

	"github.com/lk2023060901/gambatt/app/gacha/internal/repository"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// WalletService 钱包服务
type WalletService struct {
	logger  logger.Logger
	players repository.PlayerRepository
}

// NewWalletService 创建钱包服务
func NewWalletService(players repository.PlayerRepository, l logger.Logger) *WalletService {
	return &WalletService{
		logger:  l.Named("service.wallet"),
		players: players,
	}
}

// Charge 校验余额并扣费，返回扣费后余额
// 余额不足时返回 InsufficientFundsError，不产生任何变更
func (s *WalletService) Charge(ctx context.Context, userID string, cost int64) (int64, error) {
	balance, err := s.players.GetBalance(ctx, userID)
	if err != nil {
		return 0, err
	}
	if balance < cost {
		return 0, &InsufficientFundsError{Balance: balance, Cost: cost}
	}

	remaining, err := s.players.DebitBalance(ctx, userID, cost)
	if err != nil {
		return 0, err
	}

	s.logger.Debug("wallet charged",
		"user_id", userID,
		"cost", cost,
		"balance", remaining)
	return remaining, nil
}

// Credit 管理员充值，返回充值后余额
func (s *WalletService) Credit(ctx context.Context, userID string, amount int64) (int64, error) {
	balance, err := s.players.CreditBalance(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	s.logger.Info("wallet credited",
		"user_id", userID,
		"amount", amount,
		"balance", balance)
	return balance, nil
}

// Balance 查询余额
func (s *WalletService) Balance(ctx context.Context, userID string) (int64, error) {
	return s.players.GetBalance(ctx, userID)
}
