package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/qingnian/blog-api/internal/config"
	"github.com/qingnian/blog-api/internal/database"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/router"
	"github.com/qingnian/blog-api/internal/service"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/qingnian/blog-api/pkg/auth"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "启动HTTP服务",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServer() error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer logger.Close()

	cfg := config.GlobalConfig
	gin.SetMode(cfg.App.Mode)

	// 令牌黑名单切换到Redis实现，多实例部署时登出状态共享
	auth.SetTokenBlacklist(auth.NewRedisTokenBlacklist(database.GetRedis()))

	// 定时对账修复冗余写入失败留下的不一致
	reconciler := service.NewReconcileService(store.NewGormStore(database.GetDB()), cfg.Reconcile.Concurrency)
	if cfg.Reconcile.Cron != "" {
		if err := reconciler.Start(cfg.Reconcile.Cron); err != nil {
			return fmt.Errorf("启动定时对账失败: %v", err)
		}
		defer reconciler.Stop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), logger.GinLogger())
	router.Setup(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: r,
	}

	go func() {
		logger.Infof("服务启动，监听端口 %d", cfg.App.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("服务启动失败: " + err.Error())
		}
	}()

	// 等待退出信号，优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("收到退出信号，正在关闭服务...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("服务关闭失败: %v", err)
	}

	logger.Info("服务已退出")
	return nil
}
