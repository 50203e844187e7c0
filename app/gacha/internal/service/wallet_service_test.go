package service

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChargeSuccess 余额充足时扣费
func TestChargeSuccess(t *testing.T) {
	repo := newFakePlayerRepo()
	repo.balances["u1"] = 200
	s := NewWalletService(repo, logger.NewNoop())

	balance, err := s.Charge(context.Background(), "u1", 160)
	require.NoError(t, err)
	assert.Equal(t, int64(40), balance)
}

// TestChargeInsufficient 余额不足时拒绝且余额不变
func TestChargeInsufficient(t *testing.T) {
	repo := newFakePlayerRepo()
	repo.balances["u1"] = 100
	s := NewWalletService(repo, logger.NewNoop())

	_, err := s.Charge(context.Background(), "u1", 160)

	var insufficientErr *InsufficientFundsError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, int64(100), insufficientErr.Balance)
	assert.Equal(t, int64(160), insufficientErr.Cost)

	balance, err := s.Balance(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
}

// TestChargeUnknownUser 无钱包记录视为零余额
func TestChargeUnknownUser(t *testing.T) {
	s := NewWalletService(newFakePlayerRepo(), logger.NewNoop())

	_, err := s.Charge(context.Background(), "nobody", 160)

	var insufficientErr *InsufficientFundsError
	require.True(t, errors.As(err, &insufficientErr))
	assert.Equal(t, int64(0), insufficientErr.Balance)
}

// TestCredit 充值累加余额
func TestCredit(t *testing.T) {
	s := NewWalletService(newFakePlayerRepo(), logger.NewNoop())
	ctx := context.Background()

	balance, err := s.Credit(ctx, "u1", 500)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	balance, err = s.Credit(ctx, "u1", 160)
	require.NoError(t, err)
	assert.Equal(t, int64(660), balance)
}
