package model

import "errors"

var (
	ErrInvalidShirtSize    = errors.New("invalid shirt size")
	ErrInvalidRelationType = errors.New("invalid relation type")
	ErrNicknameTooLong     = errors.New("nickname too long")
)

// ShirtSize 单字符编码的尺码
type ShirtSize string

const (
	ShirtSizeSmall  ShirtSize = "S"
	ShirtSizeMedium ShirtSize = "M"
	ShirtSizeLarge  ShirtSize = "L"
)

// ShirtSizeHelpText 选择提示
const ShirtSizeHelpText = "S,M,L 중에 선택"

// ShirtSizes 按展示顺序返回全部尺码
func ShirtSizes() []ShirtSize {
	return []ShirtSize{ShirtSizeSmall, ShirtSizeMedium, ShirtSizeLarge}
}

func (s ShirtSize) Valid() bool {
	switch s {
	case ShirtSizeSmall, ShirtSizeMedium, ShirtSizeLarge:
		return true
	}
	return false
}

func (s ShirtSize) Display() string {
	switch s {
	case ShirtSizeSmall:
		return "Small"
	case ShirtSizeMedium:
		return "Medium"
	case ShirtSizeLarge:
		return "Large"
	}
	return string(s)
}

// RelationType 关系类型：f=关注，b=拉黑
type RelationType string

const (
	RelationFollow RelationType = "f"
	RelationBlock  RelationType = "b"
)

func (t RelationType) Valid() bool {
	return t == RelationFollow || t == RelationBlock
}

func (t RelationType) Display() string {
	switch t {
	case RelationFollow:
		return "Follow"
	case RelationBlock:
		return "Block"
	}
	return string(t)
}
