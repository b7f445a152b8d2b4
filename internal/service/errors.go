package service

import (
	"errors"
	"fmt"
)

// Kind 下單流程的錯誤分類
type Kind uint8

const (
	KindUnknown Kind = iota
	// KindInvalidRequest 缺少姓名、電話或購物車, 使用者可修正
	KindInvalidRequest
	// KindInvalidItem 購物車內有不存在或已下架的品項, 整張訂單拒絕
	KindInvalidItem
	// KindStorageUnavailable 儲存層無法完成讀寫, 屬於維運問題
	KindStorageUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "InvalidRequest"
	case KindInvalidItem:
		return "InvalidItem"
	case KindStorageUnavailable:
		return "StorageUnavailable"
	default:
		return "Unknown"
	}
}

const (
	MsgInvalidRequest     = "Missing name, phone, or cart"
	MsgInvalidItem        = "Invalid item in cart"
	MsgStorageUnavailable = "We could not place your order right now. Please try again."
)

// OrderError Message 可以直接回給使用者, Err 保留內部原因
type OrderError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *OrderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *OrderError) Unwrap() error {
	return e.Err
}

func newInvalidRequest(msg string) error {
	if msg == "" {
		msg = MsgInvalidRequest
	}
	return &OrderError{Kind: KindInvalidRequest, Message: msg}
}

func newInvalidItem(msg string) error {
	if msg == "" {
		msg = MsgInvalidItem
	}
	return &OrderError{Kind: KindInvalidItem, Message: msg}
}

func newStorageUnavailable(err error) error {
	return &OrderError{Kind: KindStorageUnavailable, Message: MsgStorageUnavailable, Err: err}
}

// KindOf 取出錯誤分類, 不是 OrderError 時回傳 KindUnknown
func KindOf(err error) Kind {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Kind
	}
	return KindUnknown
}

// UserMessage 取出可以顯示給使用者的訊息
func UserMessage(err error) string {
	var oe *OrderError
	if errors.As(err, &oe) {
		return oe.Message
	}
	return "Internal Server Error"
}
