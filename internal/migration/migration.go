// Package migration holds the ordered, dependency-linked schema steps and
// applies them through gormigrate. Each step snapshots the models it touches
// so later model changes never rewrite history.
package migration

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/go-gormigrate/gormigrate/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/relation-models/pkg/logger"
)

// TableName 记录已执行迁移的表
const TableName = "schema_migrations"

var (
	ErrBadName           = errors.New("migration name must look like <app>.<NNNN>_<label>")
	ErrDuplicateName     = errors.New("duplicate migration name")
	ErrUnknownDependency = errors.New("migration depends on an unknown or later step")
	ErrOutOfSequence     = errors.New("migration number out of sequence")
	ErrUnknownStep       = errors.New("unknown migration")
)

var nameRe = regexp.MustCompile(`^([a-z][a-z0-9_]*)\.(\d{4})_([a-z0-9_]+)$`)

// Step 一个命名的迁移步骤
type Step struct {
	Name      string
	DependsOn []string
	Migrate   func(tx *gorm.DB) error
	Rollback  func(tx *gorm.DB) error
}

// App 返回步骤所属应用名（名字中 "." 之前的部分）
func (s Step) App() string {
	if m := nameRe.FindStringSubmatch(s.Name); m != nil {
		return m[1]
	}
	return ""
}

// Status 迁移执行状态
type Status struct {
	Name    string
	Applied bool
}

// Validate 校验顺序与依赖：
// 名字唯一；依赖必须出现在当前步骤之前；同一应用内编号从 0001 连续递增，
// 且每一步（首步除外）依赖本应用的上一步。
func Validate(steps []Step) error {
	seen := make(map[string]bool, len(steps))
	lastNum := make(map[string]int)
	lastName := make(map[string]string)

	for _, s := range steps {
		m := nameRe.FindStringSubmatch(s.Name)
		if m == nil {
			return fmt.Errorf("%w: %q", ErrBadName, s.Name)
		}
		if seen[s.Name] {
			return fmt.Errorf("%w: %s", ErrDuplicateName, s.Name)
		}
		if s.Migrate == nil {
			return fmt.Errorf("migration %s has no Migrate func", s.Name)
		}
		for _, dep := range s.DependsOn {
			if !seen[dep] {
				return fmt.Errorf("%w: %s -> %s", ErrUnknownDependency, s.Name, dep)
			}
		}

		app := m[1]
		num, _ := strconv.Atoi(m[2])
		if num != lastNum[app]+1 {
			return fmt.Errorf("%w: %s follows %04d", ErrOutOfSequence, s.Name, lastNum[app])
		}
		if prev, ok := lastName[app]; ok && !contains(s.DependsOn, prev) {
			return fmt.Errorf("%w: %s must depend on %s", ErrUnknownDependency, s.Name, prev)
		}

		seen[s.Name] = true
		lastNum[app] = num
		lastName[app] = s.Name
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// Migrator 基于 gormigrate 执行迁移
type Migrator struct {
	db    *gorm.DB
	steps []Step
	gm    *gormigrate.Gormigrate
}

// NewMigrator 校验步骤后构建执行器
func NewMigrator(db *gorm.DB, steps []Step) (*Migrator, error) {
	if err := Validate(steps); err != nil {
		return nil, err
	}

	list := make([]*gormigrate.Migration, 0, len(steps))
	for _, s := range steps {
		s := s
		list = append(list, &gormigrate.Migration{
			ID: s.Name,
			Migrate: func(tx *gorm.DB) error {
				logger.Info("applying migration", zap.String("name", s.Name))
				if err := s.Migrate(tx); err != nil {
					return fmt.Errorf("migrate %s: %w", s.Name, err)
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				if s.Rollback == nil {
					return fmt.Errorf("migration %s is irreversible", s.Name)
				}
				logger.Info("rolling back migration", zap.String("name", s.Name))
				return s.Rollback(tx)
			},
		})
	}

	gm := gormigrate.New(db, &gormigrate.Options{
		TableName:      TableName,
		IDColumnName:   "id",
		IDColumnSize:   255,
		UseTransaction: true,
	}, list)

	return &Migrator{db: db, steps: steps, gm: gm}, nil
}

// Up 执行所有未执行的迁移
func (m *Migrator) Up() error { return m.gm.Migrate() }

// UpTo 执行到 name（含）为止
func (m *Migrator) UpTo(name string) error {
	if !m.has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownStep, name)
	}
	return m.gm.MigrateTo(name)
}

// DownLast 回滚最后一个已执行的迁移
func (m *Migrator) DownLast() error { return m.gm.RollbackLast() }

// DownTo 回滚到 name 为止（name 本身保留）
func (m *Migrator) DownTo(name string) error {
	if !m.has(name) {
		return fmt.Errorf("%w: %s", ErrUnknownStep, name)
	}
	return m.gm.RollbackTo(name)
}

// Applied 按注册顺序返回每个步骤的执行状态
func (m *Migrator) Applied() ([]Status, error) {
	done := make(map[string]bool)
	if m.db.Migrator().HasTable(TableName) {
		var ids []string
		if err := m.db.Table(TableName).Pluck("id", &ids).Error; err != nil {
			return nil, err
		}
		for _, id := range ids {
			done[id] = true
		}
	}

	out := make([]Status, len(m.steps))
	for i, s := range m.steps {
		out[i] = Status{Name: s.Name, Applied: done[s.Name]}
	}
	return out, nil
}

func (m *Migrator) has(name string) bool {
	for _, s := range m.steps {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Registry 返回全部迁移，按执行顺序排列
func Registry() []Step {
	steps := make([]Step, 0, 4)
	steps = append(steps, fieldsSteps()...)
	steps = append(steps, manyToManySteps()...)
	return steps
}

// Run 执行全部迁移（服务启动时调用）
func Run(db *gorm.DB) error {
	m, err := NewMigrator(db, Registry())
	if err != nil {
		return err
	}
	return m.Up()
}
