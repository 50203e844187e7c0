package handler

import (
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
	"github.com/lk2023060901/gambatt/pkg/logger"
)

// PageRequest 翻页请求，Delta 为页增量 (负数向前)
type PageRequest struct {
	Handle string `json:"handle"`
	Delta  int    `json:"delta"`
}

// FinalizeRequest 终局请求
type FinalizeRequest struct {
	Handle string `json:"handle"`
}

// PageReply 翻页应答
type PageReply struct {
	Code Code            `json:"code"`
	View *model.PageView `json:"view,omitempty"`
}

// FinalReply 终局应答
type FinalReply struct {
	Code  Code                `json:"code"`
	Final *model.FinalSummary `json:"final,omitempty"`
}

// PageHandler 翻页会话请求处理器
type PageHandler struct {
	logger  logger.Logger
	rollSvc *service.RollService
}

// NewPageHandler 创建翻页处理器
func NewPageHandler(l logger.Logger, rollSvc *service.RollService) *PageHandler {
	return &PageHandler{
		logger:  l.Named("handler.page"),
		rollSvc: rollSvc,
	}
}

// HandlePage 处理翻页，超时或不存在的会话返回 CodeSessionNotFound
func (h *PageHandler) HandlePage(req *PageRequest) *PageReply {
	if req.Handle == "" {
		return &PageReply{Code: CodeBadRequest}
	}

	view := h.rollSvc.AdvancePage(req.Handle, req.Delta)
	if view == nil {
		return &PageReply{Code: CodeSessionNotFound}
	}

	return &PageReply{Code: CodeOK, View: view}
}

// HandleGetPage 查询当前页
func (h *PageHandler) HandleGetPage(req *FinalizeRequest) *PageReply {
	if req.Handle == "" {
		return &PageReply{Code: CodeBadRequest}
	}

	view := h.rollSvc.GetPage(req.Handle)
	if view == nil {
		return &PageReply{Code: CodeSessionNotFound}
	}

	return &PageReply{Code: CodeOK, View: view}
}

// HandleFinalize 处理玩家主动终局
func (h *PageHandler) HandleFinalize(req *FinalizeRequest) *FinalReply {
	if req.Handle == "" {
		return &FinalReply{Code: CodeBadRequest}
	}

	final := h.rollSvc.Finalize(req.Handle)
	if final == nil {
		return &FinalReply{Code: CodeSessionNotFound}
	}

	h.logger.Debug("session finalized by user", "handle", req.Handle)
	return &FinalReply{Code: CodeOK, Final: final}
}
