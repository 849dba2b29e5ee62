package service

import (
	"fmt"
	"strings"

	"github.com/qingnian/blog-api/internal/logger"
	"go.uber.org/zap"
)

// SyncStep 冗余侧写入步骤
type SyncStep struct {
	Name string
	Fn   func() error
}

// Synchronizer 跨集合一致性同步器
// 两个集合之间没有事务保证，写入顺序固定为：先提交权威侧，再尽力
// 执行冗余侧。权威侧失败则整个操作失败；冗余侧失败只记录告警并随
// 成功结果返回，绝不回滚已提交的权威写入，残留的不一致由对账任务修复
type Synchronizer struct {
	log *zap.SugaredLogger
}

// NewSynchronizer 创建同步器
func NewSynchronizer() *Synchronizer {
	return &Synchronizer{log: logger.GetSugaredLogger()}
}

// Run 执行一次受同步策略保护的写入，返回聚合后的告警文本
func (s *Synchronizer) Run(op string, primary func() error, steps ...SyncStep) (string, error) {
	if err := primary(); err != nil {
		return "", err
	}

	var warnings []string
	for _, step := range steps {
		if err := step.Fn(); err != nil {
			s.log.Warnf("%s: 冗余写入[%s]失败: %v", op, step.Name, err)
			warnings = append(warnings, fmt.Sprintf("%s失败，数据将由对账任务修复", step.Name))
		}
	}
	return strings.Join(warnings, "；"), nil
}
