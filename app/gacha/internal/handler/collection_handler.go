package handler

import (
	"context"

	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// CollectionRequest 图鉴查询请求
type CollectionRequest struct {
	UserID string `json:"user_id"`
}

// CollectionReply 图鉴查询应答
type CollectionReply struct {
	Code    Code                     `json:"code"`
	Entries []*model.CollectionEntry `json:"entries,omitempty"`
	Balance int64                    `json:"balance,omitempty"`
}

// CollectionHandler 图鉴查询处理器
type CollectionHandler struct {
	logger        logger.Logger
	collectionSvc *service.CollectionService
	walletSvc     *service.WalletService
}

// NewCollectionHandler 创建图鉴查询处理器
func NewCollectionHandler(
	l logger.Logger,
	collectionSvc *service.CollectionService,
	walletSvc *service.WalletService,
) *CollectionHandler {
	return &CollectionHandler{
		logger:        l.Named("handler.collection"),
		collectionSvc: collectionSvc,
		walletSvc:     walletSvc,
	}
}

// HandleCollection 查询玩家图鉴与余额
func (h *CollectionHandler) HandleCollection(ctx context.Context, req *CollectionRequest) *CollectionReply {
	if req.UserID == "" {
		return &CollectionReply{Code: CodeBadRequest}
	}

	entries, err := h.collectionSvc.List(ctx, req.UserID)
	if err != nil {
		h.logger.Error("collection query failed", "user_id", req.UserID, "error", err)
		return &CollectionReply{Code: codeOf(err)}
	}

	balance, err := h.walletSvc.Balance(ctx, req.UserID)
	if err != nil {
		h.logger.Error("balance query failed", "user_id", req.UserID, "error", err)
		return &CollectionReply{Code: codeOf(err)}
	}

	return &CollectionReply{
		Code:    CodeOK,
		Entries: entries,
		Balance: balance,
	}
}
