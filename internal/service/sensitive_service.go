package service

import (
	"sync"

	"github.com/importcjj/sensitive"
	"github.com/qingnian/blog-api/internal/logger"
	"go.uber.org/zap"
)

var (
	sensitiveService     *SensitiveService
	sensitiveServiceOnce sync.Once
)

// 内置基础敏感词，部署时可通过词典文件扩充
var defaultSensitiveWords = []string{
	"傻逼", "妈的", "操你", "去死", "垃圾平台",
}

// SensitiveService 敏感词过滤服务
type SensitiveService struct {
	filter *sensitive.Filter
	logger *zap.SugaredLogger
}

// NewSensitiveService 创建敏感词过滤服务实例
func NewSensitiveService() *SensitiveService {
	sensitiveServiceOnce.Do(func() {
		filter := sensitive.New()
		filter.AddWord(defaultSensitiveWords...)

		sensitiveService = &SensitiveService{
			filter: filter,
			logger: logger.GetSugaredLogger(),
		}
	})
	return sensitiveService
}

// LoadDict 从词典文件追加敏感词
func (s *SensitiveService) LoadDict(path string) {
	if err := s.filter.LoadWordDict(path); err != nil {
		s.logger.Warnf("加载敏感词词典失败: %v", err)
	}
}

// ContainsSensitiveWord 检测文本是否包含敏感词
func (s *SensitiveService) ContainsSensitiveWord(text string) bool {
	ok, _ := s.filter.Validate(text)
	return !ok
}

// GetSensitiveWords 获取文本中包含的敏感词
func (s *SensitiveService) GetSensitiveWords(text string) []string {
	return s.filter.FindAll(text)
}

// FilterSensitiveWords 过滤文本中的敏感词，替换为*
func (s *SensitiveService) FilterSensitiveWords(text string) string {
	return s.filter.Replace(text, '*')
}
