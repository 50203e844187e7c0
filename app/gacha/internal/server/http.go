package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lk2023060901/gambatt/app/gacha/internal/handler"
	"github.com/lk2023060901/gambatt/pkg/database/postgres"
	"github.com/lk2023060901/gambatt/pkg/database/redis"
	"github.com/lk2023060901/gambatt/pkg/logger"
	"github.com/lk2023060901/gambatt/pkg/web"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPServer 创建对外 HTTP 服务并注册全部路由
// 抽取接口面向聊天机器人适配层，admin 接口面向运营工具
func NewHTTPServer(
	cfg *web.Config,
	l logger.Logger,
	registry *prometheus.Registry,
	db *postgres.Client,
	rdb *redis.Client,
	rollHandler *handler.RollHandler,
	pageHandler *handler.PageHandler,
	collectionHandler *handler.CollectionHandler,
	adminHandler *handler.AdminHandler,
) *web.Server {
	srv := web.NewServer(cfg, l)
	router := srv.Router()

	router.GET("/healthz", func(c *gin.Context) {
		ctx := c.Request.Context()
		if err := db.Ping(ctx); err != nil {
			web.Error(c, http.StatusServiceUnavailable, 1, "database unavailable")
			return
		}
		if err := rdb.Ping(ctx); err != nil {
			web.Error(c, http.StatusServiceUnavailable, 1, "redis unavailable")
			return
		}
		web.Success(c, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := router.Group("/api/v1")
	{
		v1.POST("/roll", func(c *gin.Context) {
			var req handler.RollRequest
			if !web.BindAndValidate(c, &req) {
				return
			}
			web.Success(c, rollHandler.HandleRoll(c.Request.Context(), &req))
		})

		v1.POST("/roll/ten", func(c *gin.Context) {
			var req handler.RollTenRequest
			if !web.BindAndValidate(c, &req) {
				return
			}
			web.Success(c, rollHandler.HandleRollTen(c.Request.Context(), &req))
		})

		v1.POST("/page", func(c *gin.Context) {
			var req handler.PageRequest
			if !web.BindAndValidate(c, &req) {
				return
			}
			web.Success(c, pageHandler.HandlePage(&req))
		})

		v1.GET("/page/:handle", func(c *gin.Context) {
			req := handler.FinalizeRequest{Handle: c.Param("handle")}
			web.Success(c, pageHandler.HandleGetPage(&req))
		})

		v1.POST("/finalize", func(c *gin.Context) {
			var req handler.FinalizeRequest
			if !web.BindAndValidate(c, &req) {
				return
			}
			web.Success(c, pageHandler.HandleFinalize(&req))
		})

		v1.GET("/collection/:user_id", func(c *gin.Context) {
			req := handler.CollectionRequest{UserID: c.Param("user_id")}
			web.Success(c, collectionHandler.HandleCollection(c.Request.Context(), &req))
		})
	}

	admin := router.Group("/api/v1/admin")
	{
		admin.POST("/credit", func(c *gin.Context) {
			var req handler.CreditRequest
			if !web.BindAndValidate(c, &req) {
				return
			}
			web.Success(c, adminHandler.HandleCredit(c.Request.Context(), &req))
		})

		admin.POST("/grant", func(c *gin.Context) {
			var req handler.GrantRequest
			if !web.BindAndValidate(c, &req) {
				return
			}
			web.Success(c, adminHandler.HandleGrant(c.Request.Context(), &req))
		})
	}

	return srv
}
