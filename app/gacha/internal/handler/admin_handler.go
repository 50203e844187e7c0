package handler

import (
	"context"

	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/repository"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// CreditRequest 管理员充值请求
type CreditRequest struct {
	UserID string `json:"user_id"`
	Amount int64  `json:"amount"`
}

// CreditReply 充值应答
type CreditReply struct {
	Code    Code  `json:"code"`
	Balance int64 `json:"balance,omitempty"`
}

// GrantRequest 管理员发放角色请求
type GrantRequest struct {
	UserID         string `json:"user_id"`
	CharacterValue string `json:"character_value"`
}

// GrantReply 发放应答
type GrantReply struct {
	Code      Code                 `json:"code"`
	Character *model.Character     `json:"character,omitempty"`
	Outcome   *model.LedgerOutcome `json:"outcome,omitempty"`
}

// AdminHandler 管理员运营操作处理器
type AdminHandler struct {
	logger        logger.Logger
	walletSvc     *service.WalletService
	collectionSvc *service.CollectionService
	catalog       repository.CatalogRepository
}

// NewAdminHandler 创建管理员处理器
func NewAdminHandler(
	l logger.Logger,
	walletSvc *service.WalletService,
	collectionSvc *service.CollectionService,
	catalog repository.CatalogRepository,
) *AdminHandler {
	return &AdminHandler{
		logger:        l.Named("handler.admin"),
		walletSvc:     walletSvc,
		collectionSvc: collectionSvc,
		catalog:       catalog,
	}
}

// HandleCredit 处理充值
func (h *AdminHandler) HandleCredit(ctx context.Context, req *CreditRequest) *CreditReply {
	if req.UserID == "" || req.Amount <= 0 {
		return &CreditReply{Code: CodeBadRequest}
	}

	balance, err := h.walletSvc.Credit(ctx, req.UserID, req.Amount)
	if err != nil {
		h.logger.Error("credit failed", "user_id", req.UserID, "amount", req.Amount, "error", err)
		return &CreditReply{Code: codeOf(err)}
	}

	return &CreditReply{Code: CodeOK, Balance: balance}
}

// HandleGrant 处理角色发放
func (h *AdminHandler) HandleGrant(ctx context.Context, req *GrantRequest) *GrantReply {
	if req.UserID == "" || req.CharacterValue == "" {
		return &GrantReply{Code: CodeBadRequest}
	}

	character, err := h.catalog.GetCharacter(ctx, req.CharacterValue)
	if err != nil {
		h.logger.Error("grant failed, character lookup",
			"user_id", req.UserID,
			"character", req.CharacterValue,
			"error", err)
		return &GrantReply{Code: CodeBadRequest}
	}

	outcome, err := h.collectionSvc.Grant(ctx, req.UserID, character)
	if err != nil {
		h.logger.Error("grant failed", "user_id", req.UserID, "character", req.CharacterValue, "error", err)
		return &GrantReply{Code: codeOf(err)}
	}

	return &GrantReply{
		Code:      CodeOK,
		Character: character,
		Outcome:   outcome,
	}
}
