package server

import (
	"github.com/lk2023060901/gambatt/app/gacha/internal/manager"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CronServer 后台定时任务
// 目前只有翻页会话的兜底清理，正常过期由会话自身定时器处理
type CronServer struct {
	logger   logger.Logger
	cron     *cron.Cron
	sessions *manager.PaginationManager
}

// NewCronServer 创建定时任务服务
func NewCronServer(sessions *manager.PaginationManager, l logger.Logger) (*CronServer, error) {
	s := &CronServer{
		logger:   l.Named("server.cron"),
		cron:     cron.New(cron.WithSeconds()),
		sessions: sessions,
	}

	// 每 30 秒兜底清理一次滞留会话
	if _, err := s.cron.AddFunc("*/30 * * * * *", func() {
		if swept := s.sessions.SweepExpired(); swept > 0 {
			s.logger.Info("stale sessions swept", "count", swept)
		}
	}); err != nil {
		return nil, err
	}

	return s, nil
}

// Start 启动定时任务
func (s *CronServer) Start() error {
	s.cron.Start()
	s.logger.Info("cron server started")
	return nil
}

// Stop 停止定时任务，等待执行中的任务完成
func (s *CronServer) Stop() error {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("cron server stopped")
	return nil
}
