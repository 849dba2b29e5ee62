package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// 文档内嵌数组统一存储为JSON列，读写整列，对应整文档读改写语义。

func marshalJSON(v any) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func unmarshalJSON(value any, dest any) error {
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("不支持的JSON列类型: %T", value)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dest)
}

// StringList 字符串数组JSON列（文章标签）
type StringList []string

// Value 实现driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return marshalJSON(l)
}

// Scan 实现sql.Scanner
func (l *StringList) Scan(value any) error {
	*l = StringList{}
	return unmarshalJSON(value, l)
}

// CommentList 评论数组JSON列
type CommentList []Comment

// Value 实现driver.Valuer
func (l CommentList) Value() (driver.Value, error) {
	if l == nil {
		l = CommentList{}
	}
	return marshalJSON(l)
}

// Scan 实现sql.Scanner
func (l *CommentList) Scan(value any) error {
	*l = CommentList{}
	return unmarshalJSON(value, l)
}

// ArticleRefList 文章投影数组JSON列
type ArticleRefList []ArticleRef

// Value 实现driver.Valuer
func (l ArticleRefList) Value() (driver.Value, error) {
	if l == nil {
		l = ArticleRefList{}
	}
	return marshalJSON(l)
}

// Scan 实现sql.Scanner
func (l *ArticleRefList) Scan(value any) error {
	*l = ArticleRefList{}
	return unmarshalJSON(value, l)
}

// FavoriteRefList 收藏条目数组JSON列
type FavoriteRefList []FavoriteRef

// Value 实现driver.Valuer
func (l FavoriteRefList) Value() (driver.Value, error) {
	if l == nil {
		l = FavoriteRefList{}
	}
	return marshalJSON(l)
}

// Scan 实现sql.Scanner
func (l *FavoriteRefList) Scan(value any) error {
	*l = FavoriteRefList{}
	return unmarshalJSON(value, l)
}
