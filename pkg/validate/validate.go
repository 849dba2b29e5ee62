package validate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// FormatError 将绑定/校验错误转换为面向用户的中文提示
func FormatError(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return "请求参数错误"
	}
	return formatValidationError(errs)
}

func formatValidationError(errs validator.ValidationErrors) string {
	msgMap := map[string]string{
		"required": "不能为空",
		"min":      "长度不能小于%v",
		"max":      "长度不能大于%v",
		"email":    "必须是有效的邮箱地址",
		"oneof":    "必须是[%v]中的一个",
	}

	// 字段名称映射
	fieldMap := map[string]string{
		"Title":    "标题",
		"Content":  "内容",
		"Summary":  "摘要",
		"Category": "分类",
		"Status":   "状态",
		"Username": "用户名",
		"Email":    "邮箱",
		"Password": "密码",
		"Bio":      "个人简介",
	}

	// 只返回第一个错误
	firstErr := errs[0]

	fieldName := fieldMap[firstErr.Field()]
	if fieldName == "" {
		fieldName = firstErr.Field()
	}

	msgTemplate := msgMap[firstErr.Tag()]
	if msgTemplate == "" {
		msgTemplate = "验证失败"
	}

	if firstErr.Param() != "" {
		return fieldName + fmt.Sprintf(msgTemplate, firstErr.Param())
	}

	return fieldName + msgTemplate
}
