package model

import "time"

// TwitterUser 用户；用户之间的关系（关注 / 拉黑）通过 Relation 中间表表示
type TwitterUser struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null"`
	CreatedAt time.Time `json:"created_at"`
}

func (TwitterUser) TableName() string { return "twitter_users" }

func (u TwitterUser) String() string { return u.Name }
