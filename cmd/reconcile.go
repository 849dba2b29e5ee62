package cmd

import (
	"context"

	"github.com/qingnian/blog-api/internal/config"
	"github.com/qingnian/blog-api/internal/database"
	"github.com/qingnian/blog-api/internal/logger"
	"github.com/qingnian/blog-api/internal/service"
	"github.com/qingnian/blog-api/internal/store"
	"github.com/spf13/cobra"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "执行一次全量数据对账",
	Long:  "以文章集合为权威数据，重建用户文档上的文章投影、统计数和收藏列表",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReconcile()
	},
}

func init() {
	rootCmd.AddCommand(reconcileCmd)
}

func runReconcile() error {
	if err := initializeSystem(); err != nil {
		return err
	}
	defer logger.Close()

	reconciler := service.NewReconcileService(
		store.NewGormStore(database.GetDB()),
		config.GlobalConfig.Reconcile.Concurrency,
	)
	return reconciler.ReconcileAll(context.Background())
}
