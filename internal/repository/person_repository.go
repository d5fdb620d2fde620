package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/relation-models/internal/model"
)

type PersonRepository interface {
	Create(ctx context.Context, p *model.Person) error
	Get(ctx context.Context, id string) (*model.Person, error)
	GetByNickname(ctx context.Context, nickname string) (*model.Person, error)
	Update(ctx context.Context, p *model.Person) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*model.Person, int64, error)
	IncrementStars(ctx context.Context, id string, delta int) (*model.Person, error)
}

type personRepository struct {
	db *gorm.DB
}

func NewPersonRepository(db *gorm.DB) PersonRepository { return &personRepository{db: db} }

func (r *personRepository) Create(ctx context.Context, p *model.Person) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(p).Error)
}

func (r *personRepository) Get(ctx context.Context, id string) (*model.Person, error) {
	var p model.Person
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (r *personRepository) GetByNickname(ctx context.Context, nickname string) (*model.Person, error) {
	var p model.Person
	if err := r.db.WithContext(ctx).Where("nickname = ?", strings.TrimSpace(nickname)).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// Update 全量更新可编辑字段（含零值，例如把 nickname 置空）
func (r *personRepository) Update(ctx context.Context, p *model.Person) error {
	res := r.db.WithContext(ctx).Model(p).
		Select("name", "shirt_size", "nickname", "stars").
		Updates(p)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Person{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *personRepository) List(ctx context.Context, offset, limit int) ([]*model.Person, int64, error) {
	offset, limit = normalizePage(offset, limit)
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Person{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.Person
	err := r.db.WithContext(ctx).Order("created_at, id").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

// IncrementStars 原子地累加 stars（UpdateColumn 跳过钩子，避免空模型校验）
func (r *personRepository) IncrementStars(ctx context.Context, id string, delta int) (*model.Person, error) {
	res := r.db.WithContext(ctx).Model(&model.Person{}).
		Where("id = ?", id).
		UpdateColumn("stars", gorm.Expr("stars + ?", delta))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return r.Get(ctx, id)
}
