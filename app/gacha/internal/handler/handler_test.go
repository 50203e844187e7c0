package handler

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/lk2023060901/gambatt/app/gacha/internal/gameconfig"
	"github.com/lk2023060901/gambatt/app/gacha/internal/manager"
	"github.com/lk2023060901/gambatt/app/gacha/internal/metrics"
	"github.com/lk2023060901/gambatt/app/gacha/internal/model"
	"github.com/lk2023060901/gambatt/app/gacha/internal/service"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCodeOf 测试服务层错误到错误码的映射
func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeOK},
		{"busy", service.ErrRollBusy, CodeBusy},
		{"busy wrapped", errors.Wrap(service.ErrRollBusy, "context"), CodeBusy},
		{"insufficient", &service.InsufficientFundsError{Balance: 100, Cost: 160}, CodeInsufficientFunds},
		{"empty pool", &service.EmptyCandidatePoolError{Rarity: model.RaritySSR}, CodeEmptyPool},
		{"other", errors.New("boom"), CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, codeOf(tt.err))
		})
	}
}

func newPageFixture(t *testing.T) (*PageHandler, *manager.PaginationManager) {
	t.Helper()

	l := logger.NewNoop()
	m := metrics.New(nil)
	sessions := manager.NewPaginationManager(time.Minute, nil, l, m)
	t.Cleanup(sessions.Close)

	rollSvc := service.NewRollService(
		gameconfig.NewStaticProvider(nil),
		service.NewRarityService(l),
		nil, nil, nil,
		manager.NewRollLockManager(l),
		sessions,
		m, l,
	)
	return NewPageHandler(l, rollSvc), sessions
}

func seedSession(sessions *manager.PaginationManager, handle string, pages int) {
	results := make([]*model.DrawResult, pages)
	for i := range results {
		results[i] = &model.DrawResult{
			Character: &model.Character{Value: "c1", Rarity: model.RarityR},
			Outcome:   &model.LedgerOutcome{Kind: model.OutcomeDuplicate},
		}
	}
	sessions.Create(model.NewRollSession(handle, "u1", results, &model.FinalSummary{
		UserID:  "u1",
		Results: results,
	}))
}

// TestHandlePage 测试翻页应答
func TestHandlePage(t *testing.T) {
	h, sessions := newPageFixture(t)
	seedSession(sessions, "h1", 10)

	reply := h.HandlePage(&PageRequest{Handle: "h1", Delta: 1})
	require.Equal(t, CodeOK, reply.Code)
	assert.Equal(t, 1, reply.View.Page)

	reply = h.HandlePage(&PageRequest{Handle: "missing", Delta: 1})
	assert.Equal(t, CodeSessionNotFound, reply.Code)

	reply = h.HandlePage(&PageRequest{})
	assert.Equal(t, CodeBadRequest, reply.Code)
}

// TestHandleFinalize 测试终局应答与重复终局
func TestHandleFinalize(t *testing.T) {
	h, sessions := newPageFixture(t)
	seedSession(sessions, "h1", 10)

	reply := h.HandleFinalize(&FinalizeRequest{Handle: "h1"})
	require.Equal(t, CodeOK, reply.Code)
	assert.Equal(t, "u1", reply.Final.UserID)

	reply = h.HandleFinalize(&FinalizeRequest{Handle: "h1"})
	assert.Equal(t, CodeSessionNotFound, reply.Code)
}
