package service

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
)

var (
	// ErrRollBusy 玩家已有抽取在进行中
	ErrRollBusy = errors.New("another roll is in progress")

	// ErrPityExhausted 保底重抽达到上限仍未抽出非最低稀有度
	ErrPityExhausted = errors.New("pity reroll limit exhausted")
)

// InsufficientFundsError 余额不足
type InsufficientFundsError struct {
	Balance int64
	Cost    int64
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %d, cost %d", e.Balance, e.Cost)
}

// EmptyCandidatePoolError 稀有度没有可抽取的角色
type EmptyCandidatePoolError struct {
	Rarity model.Rarity
}

func (e *EmptyCandidatePoolError) Error() string {
	return fmt.Sprintf("no candidates for rarity %q", e.Rarity)
}
