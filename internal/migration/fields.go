package migration

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrNarrowingLosesData 收窄 shirt_size 时存在枚举外的旧数据
var ErrNarrowingLosesData = errors.New("people.shirt_size holds values outside S/M/L")

var shirtSizeCodes = []string{"S", "M", "L"}

type person0001 struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	Name      string `gorm:"type:varchar(60);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (person0001) TableName() string { return "people" }

type person0002 struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	ShirtSize string `gorm:"type:varchar(1);not null;default:'M'"`
}

func (person0002) TableName() string { return "people" }

type person0003 struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)"`
	ShirtSize string  `gorm:"type:varchar(1);not null;check:chk_people_shirt_size,shirt_size IN ('S','M','L')"`
	Nickname  *string `gorm:"type:varchar(50);uniqueIndex:ux_people_nickname"`
	Stars     int     `gorm:"not null;default:0"`
}

func (person0003) TableName() string { return "people" }

func fieldsSteps() []Step {
	return []Step{
		{
			Name: "fields.0001_initial",
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().CreateTable(&person0001{})
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable("people")
			},
		},
		{
			Name:      "fields.0002_person_shirt_size",
			DependsOn: []string{"fields.0001_initial"},
			Migrate: func(tx *gorm.DB) error {
				return tx.Migrator().AddColumn(&person0002{}, "ShirtSize")
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropColumn(&person0002{}, "ShirtSize")
			},
		},
		{
			Name:      "fields.0003_person_nickname_stars",
			DependsOn: []string{"fields.0002_person_shirt_size"},
			Migrate:   migratePerson0003,
			Rollback:  rollbackPerson0003,
		},
	}
}

func migratePerson0003(tx *gorm.DB) error {
	m := tx.Migrator()
	if err := m.AddColumn(&person0003{}, "Nickname"); err != nil {
		return err
	}
	if err := m.CreateIndex(&person0003{}, "ux_people_nickname"); err != nil {
		return err
	}
	if err := m.AddColumn(&person0003{}, "Stars"); err != nil {
		return err
	}
	return narrowShirtSize(tx)
}

// narrowShirtSize 把 shirt_size 收窄为 S/M/L。存在枚举外数据时拒绝执行，避免静默丢数据。
// sqlite 无法给已有表追加 CHECK，由模型 BeforeSave 兜底。
func narrowShirtSize(tx *gorm.DB) error {
	var bad int64
	if err := tx.Table("people").Where("shirt_size NOT IN ?", shirtSizeCodes).Count(&bad).Error; err != nil {
		return err
	}
	if bad > 0 {
		return fmt.Errorf("%w: %d rows", ErrNarrowingLosesData, bad)
	}
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	if err := tx.Migrator().AlterColumn(&person0003{}, "ShirtSize"); err != nil {
		return err
	}
	return tx.Migrator().CreateConstraint(&person0003{}, "chk_people_shirt_size")
}

func rollbackPerson0003(tx *gorm.DB) error {
	m := tx.Migrator()
	if tx.Dialector.Name() == "postgres" && m.HasConstraint(&person0003{}, "chk_people_shirt_size") {
		if err := m.DropConstraint(&person0003{}, "chk_people_shirt_size"); err != nil {
			return err
		}
	}
	if err := m.DropIndex(&person0003{}, "ux_people_nickname"); err != nil {
		return err
	}
	if err := m.DropColumn(&person0003{}, "Stars"); err != nil {
		return err
	}
	return m.DropColumn(&person0003{}, "Nickname")
}
