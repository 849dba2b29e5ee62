package service

import "github.com/microcosm-cc/bluemonday"

// 用户生成内容入库前统一消毒
var (
	// 文章正文保留常规富文本标签
	richTextPolicy = bluemonday.UGCPolicy()
	// 标题、摘要、评论等纯文本字段剥离全部标签
	plainTextPolicy = bluemonday.StrictPolicy()
)

func sanitizeRichText(text string) string {
	return richTextPolicy.Sanitize(text)
}

func sanitizePlainText(text string) string {
	return plainTextPolicy.Sanitize(text)
}
