package model

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"gorm.io/gorm"
)

// NicknameMaxLen nickname 最大长度（按字符计）
const NicknameMaxLen = 50

// Person 人员
type Person struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(60);not null"`
	ShirtSize ShirtSize `json:"shirt_size" gorm:"type:varchar(1);not null"`
	// 可空且唯一；多个 NULL 互不冲突
	Nickname  *string   `json:"nickname,omitempty" gorm:"type:varchar(50);uniqueIndex:ux_people_nickname"`
	Stars     int       `json:"stars" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Person) TableName() string { return "people" }

// BeforeSave 写入前校验枚举与长度；空 nickname 存为 NULL
func (p *Person) BeforeSave(tx *gorm.DB) error {
	if !p.ShirtSize.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidShirtSize, p.ShirtSize)
	}
	if p.Nickname != nil {
		nick := strings.TrimSpace(*p.Nickname)
		if nick == "" {
			p.Nickname = nil
		} else {
			if utf8.RuneCountInString(nick) > NicknameMaxLen {
				return fmt.Errorf("%w: %d > %d", ErrNicknameTooLong, utf8.RuneCountInString(nick), NicknameMaxLen)
			}
			p.Nickname = &nick
		}
	}
	return nil
}
