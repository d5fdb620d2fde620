package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Relation 用户之间的有向关系（from 关注/拉黑 to）
type Relation struct {
	ID           string       `json:"id" gorm:"primaryKey;type:varchar(36)"`
	FromUserID   string       `json:"from_user_id" gorm:"type:varchar(36);not null;index:idx_relation_pair,unique"`
	ToUserID     string       `json:"to_user_id" gorm:"type:varchar(36);not null;index:idx_relation_pair,unique;index:idx_relation_to"`
	// 复合唯一键：同一有序用户对只允许一条边
	// idx_relation_pair = (from_user_id, to_user_id)
	RelationType RelationType `json:"relation_type" gorm:"type:varchar(1);not null"`
	CreateAt     time.Time    `json:"create_at" gorm:"column:create_at;not null"`

	FromUser *TwitterUser `json:"from_user,omitempty" gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ToUser   *TwitterUser `json:"to_user,omitempty" gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (Relation) TableName() string { return "relations" }

func (r *Relation) BeforeSave(tx *gorm.DB) error {
	if !r.RelationType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRelationType, r.RelationType)
	}
	return nil
}

// String 形如 from(alice), to(bob), Follow；未预加载用户时使用 ID
func (r Relation) String() string {
	from, to := r.FromUserID, r.ToUserID
	if r.FromUser != nil {
		from = r.FromUser.Name
	}
	if r.ToUser != nil {
		to = r.ToUser.Name
	}
	return fmt.Sprintf("from(%s), to(%s), %s", from, to, r.RelationType.Display())
}
