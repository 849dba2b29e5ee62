package cmd

import (
	"fmt"
	"os"

	"github.com/qingnian/blog-api/internal/config"
	"github.com/qingnian/blog-api/internal/database"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/model"
	"github.com/qingnian/blog-api/pkg/idgen"
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "blog-api",
	Short: "博客文章系统后端服务",
	Long:  "提供文章、评论、收藏和用户管理的HTTP API，以及数据对账等运维命令",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "配置文件目录")
}

// Execute 执行根命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initializeSystem 初始化配置、日志、ID生成器和数据库
func initializeSystem() error {
	if err := config.Init(configPath); err != nil {
		return fmt.Errorf("初始化配置失败: %v", err)
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("初始化日志失败: %v", err)
	}

	// 配置热更新目前只作用于日志级别
	config.Watch(func(c *config.Config) {
		logger.SetLevel(c.Log.Level)
		logger.Infof("配置已更新，日志级别: %s", c.Log.Level)
	})

	cfg := config.GlobalConfig
	if err := idgen.Init(cfg.Snowflake.StartTime, cfg.Snowflake.MachineID); err != nil {
		return fmt.Errorf("初始化雪花ID失败: %v", err)
	}

	db := database.GetDB()
	if err := model.InitTables(db); err != nil {
		return fmt.Errorf("初始化数据表失败: %v", err)
	}

	return nil
}
