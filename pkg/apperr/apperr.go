// Package apperr 服务层与 handler 共用的错误分类。服务返回 *Error，由 handler 按 Kind 映射 HTTP 状态码。
package apperr

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuthentication
	KindAuthorization
	KindNotFound
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthentication:
		return "authentication"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func Authentication(msg string) error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Internal 包装存储或基础设施错误，message 只写日志
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Message: msg, Err: errors.WithStack(err)}
}

// FromStore 将 gorm 错误转换为业务错误，what 用于 NotFound 提示
func FromStore(err error, what string) error {
	if err == nil {
		return nil
	}
	var ae *Error
	if errors.As(err, &ae) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(what)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(what + " already exists")
	default:
		return Internal(err, "store: "+what)
	}
}

// KindOf 返回错误类型，未分类的错误视为 KindInternal
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// Is 判断 err 是否属于 kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
