package handler

import (
	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
)

// Code 应答错误码
type Code int32

const (
	CodeOK                Code = 0
	CodeInternal          Code = 1 // 内部错误
	CodeBusy              Code = 2 // 已有抽取进行中
	CodeInsufficientFunds Code = 3 // 余额不足
	CodeEmptyPool         Code = 4 // 稀有度候选池为空
	CodeSessionNotFound   Code = 5 // 翻页会话不存在或已结束
	CodeBadRequest        Code = 6 // 请求参数非法
)

// codeOf 将服务层错误映射为应答错误码
func codeOf(err error) Code {
	if err == nil {
		return CodeOK
	}

	var insufficientErr *service.InsufficientFundsError
	var poolErr *service.EmptyCandidatePoolError
	switch {
	case errors.Is(err, service.ErrRollBusy):
		return CodeBusy
	case errors.As(err, &insufficientErr):
		return CodeInsufficientFunds
	case errors.As(err, &poolErr):
		return CodeEmptyPool
	default:
		return CodeInternal
	}
}
