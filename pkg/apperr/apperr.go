package apperr

import "errors"

// Kind 业务错误类别，响应层据此映射HTTP状态码
type Kind int

const (
	// KindInternal 内部错误
	KindInternal Kind = iota
	// KindValidation 参数校验失败
	KindValidation
	// KindNotFound 资源不存在
	KindNotFound
	// KindPermissionDenied 无权操作
	KindPermissionDenied
	// KindConflict 资源冲突
	KindConflict
	// KindUnauthenticated 未认证
	KindUnauthenticated
)

// Error 带类别的业务错误
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New 创建指定类别的业务错误
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Validation 参数校验错误
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NotFound 资源不存在错误
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// PermissionDenied 无权操作错误
func PermissionDenied(message string) *Error {
	return &Error{Kind: KindPermissionDenied, Message: message}
}

// Conflict 资源冲突错误
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// Unauthenticated 未认证错误
func Unauthenticated(message string) *Error {
	return &Error{Kind: KindUnauthenticated, Message: message}
}

// Internal 内部错误，保留底层错误便于日志追查
func Internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// KindOf 提取错误类别，非业务错误一律视为内部错误
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageOf 提取面向客户端的错误消息
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "服务器内部错误"
}

// Is 判断错误是否属于指定类别
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
