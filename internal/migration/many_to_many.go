package migration

import (
	"time"

	"gorm.io/gorm"
)

type twitterUser0001 struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"type:varchar(50);not null"`
	CreatedAt time.Time
}

func (twitterUser0001) TableName() string { return "twitter_users" }

type relation0001 struct {
	ID           string    `gorm:"primaryKey;type:varchar(36)"`
	FromUserID   string    `gorm:"type:varchar(36);not null;index:idx_relation_pair,unique"`
	ToUserID     string    `gorm:"type:varchar(36);not null;index:idx_relation_pair,unique;index:idx_relation_to"`
	RelationType string    `gorm:"type:varchar(1);not null;check:chk_relations_type,relation_type IN ('f','b')"`
	CreateAt     time.Time `gorm:"column:create_at;not null"`

	FromUser twitterUser0001 `gorm:"foreignKey:FromUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ToUser   twitterUser0001 `gorm:"foreignKey:ToUserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (relation0001) TableName() string { return "relations" }

func manyToManySteps() []Step {
	return []Step{
		{
			Name: "many_to_many.0001_initial",
			Migrate: func(tx *gorm.DB) error {
				// 先建被引用表
				if err := tx.Migrator().CreateTable(&twitterUser0001{}); err != nil {
					return err
				}
				return tx.Migrator().CreateTable(&relation0001{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("relations", "twitter_users")
			},
		},
	}
}
