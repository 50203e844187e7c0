package handler

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// RollRequest 单抽请求
type RollRequest struct {
	UserID string `json:"user_id"`
}

// RollTenRequest 十连请求，Handle 为外部消息句柄 (翻页会话 key)
type RollTenRequest struct {
	UserID string `json:"user_id"`
	Handle string `json:"handle"`
}

// RollReply 抽取应答
type RollReply struct {
	Code          Code                `json:"code"`
	DrawID        string              `json:"draw_id,omitempty"`
	Results       []*model.DrawResult `json:"results,omitempty"`
	Balance       int64               `json:"balance,omitempty"`
	HighestRarity model.Rarity        `json:"highest_rarity,omitempty"`
	// 余额不足时回传余额与消耗，供上层渲染提示
	WalletBalance int64 `json:"wallet_balance,omitempty"`
	Cost          int64 `json:"cost,omitempty"`
}

// RollHandler 抽取请求处理器
type RollHandler struct {
	logger  logger.Logger
	rollSvc *service.RollService
}

// NewRollHandler 创建抽取处理器
func NewRollHandler(l logger.Logger, rollSvc *service.RollService) *RollHandler {
	return &RollHandler{
		logger:  l.Named("handler.roll"),
		rollSvc: rollSvc,
	}
}

// HandleRoll 处理单抽
func (h *RollHandler) HandleRoll(ctx context.Context, req *RollRequest) *RollReply {
	if req.UserID == "" {
		return &RollReply{Code: CodeBadRequest}
	}

	result, err := h.rollSvc.Roll(ctx, req.UserID)
	if err != nil {
		return h.failure("roll", req.UserID, err)
	}

	return rollReply(result)
}

// HandleRollTen 处理十连
func (h *RollHandler) HandleRollTen(ctx context.Context, req *RollTenRequest) *RollReply {
	if req.UserID == "" || req.Handle == "" {
		return &RollReply{Code: CodeBadRequest}
	}

	result, err := h.rollSvc.RollTen(ctx, req.UserID, req.Handle)
	if err != nil {
		return h.failure("roll_ten", req.UserID, err)
	}

	return rollReply(result)
}

func (h *RollHandler) failure(op, userID string, err error) *RollReply {
	code := codeOf(err)
	if code == CodeInternal {
		h.logger.Error("roll failed", "op", op, "user_id", userID, "error", err)
	} else {
		h.logger.Debug("roll rejected", "op", op, "user_id", userID, "code", code)
	}

	reply := &RollReply{Code: code}
	var insufficientErr *service.InsufficientFundsError
	if errors.As(err, &insufficientErr) {
		reply.WalletBalance = insufficientErr.Balance
		reply.Cost = insufficientErr.Cost
	}
	return reply
}

func rollReply(result *model.RollResult) *RollReply {
	return &RollReply{
		Code:          CodeOK,
		DrawID:        result.DrawID,
		Results:       result.Results,
		Balance:       result.Balance,
		HighestRarity: result.HighestRarity,
	}
}
