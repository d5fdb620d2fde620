package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/relation-models/internal/model"
)

type RelationRepository interface {
	// Transaction 在一个事务内执行 fn，fn 收到绑定事务的仓储
	Transaction(ctx context.Context, fn func(repo RelationRepository) error) error

	Get(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error)
	// GetForUpdate 同 Get；postgres 上加行锁（SELECT ... FOR UPDATE）
	GetForUpdate(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error)
	Create(ctx context.Context, rel *model.Relation) error
	// CreateBatch 批量写入；任一 (from, to) 重复则整体失败并返回 ErrConflict
	CreateBatch(ctx context.Context, rels []*model.Relation) error
	Save(ctx context.Context, rel *model.Relation) error
	// Delete 删除 from->to 的边；typ 非空时仅删除该类型。返回是否删除
	Delete(ctx context.Context, fromUserID, toUserID string, typ model.RelationType) (bool, error)
	ListFrom(ctx context.Context, fromUserID string, typ model.RelationType, offset, limit int) ([]*model.Relation, error)
	ListTo(ctx context.Context, toUserID string, typ model.RelationType, offset, limit int) ([]*model.Relation, error)
}

type relationRepository struct {
	db *gorm.DB
}

func NewRelationRepository(db *gorm.DB) RelationRepository { return &relationRepository{db: db} }

func (r *relationRepository) Transaction(ctx context.Context, fn func(repo RelationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&relationRepository{db: tx})
	})
}

func (r *relationRepository) Get(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error) {
	return r.get(r.db.WithContext(ctx), fromUserID, toUserID)
}

func (r *relationRepository) GetForUpdate(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error) {
	q := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return r.get(q, fromUserID, toUserID)
}

func (r *relationRepository) get(q *gorm.DB, fromUserID, toUserID string) (*model.Relation, error) {
	var rel model.Relation
	err := q.Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID).First(&rel).Error
	if err != nil {
		return nil, translate(err)
	}
	return &rel, nil
}

func (r *relationRepository) Create(ctx context.Context, rel *model.Relation) error {
	if rel.ID == "" {
		rel.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(rel).Error)
}

func (r *relationRepository) CreateBatch(ctx context.Context, rels []*model.Relation) error {
	if len(rels) == 0 {
		return nil
	}
	for _, rel := range rels {
		if rel.ID == "" {
			rel.ID = uuid.New().String()
		}
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return translate(tx.Omit(clause.Associations).CreateInBatches(rels, 500).Error)
	})
}

func (r *relationRepository) Save(ctx context.Context, rel *model.Relation) error {
	res := r.db.WithContext(ctx).Model(rel).
		Select("relation_type", "create_at").
		Updates(rel)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *relationRepository) Delete(ctx context.Context, fromUserID, toUserID string, typ model.RelationType) (bool, error) {
	q := r.db.WithContext(ctx).Where("from_user_id = ? AND to_user_id = ?", fromUserID, toUserID)
	if typ != "" {
		q = q.Where("relation_type = ?", typ)
	}
	res := q.Delete(&model.Relation{})
	return res.RowsAffected > 0, res.Error
}

func (r *relationRepository) ListFrom(ctx context.Context, fromUserID string, typ model.RelationType, offset, limit int) ([]*model.Relation, error) {
	return r.list(ctx, "from_user_id", fromUserID, typ, offset, limit)
}

func (r *relationRepository) ListTo(ctx context.Context, toUserID string, typ model.RelationType, offset, limit int) ([]*model.Relation, error) {
	return r.list(ctx, "to_user_id", toUserID, typ, offset, limit)
}

func (r *relationRepository) list(ctx context.Context, column, userID string, typ model.RelationType, offset, limit int) ([]*model.Relation, error) {
	offset, limit = normalizePage(offset, limit)
	q := r.db.WithContext(ctx).Preload("FromUser").Preload("ToUser").Where(column+" = ?", userID)
	if typ != "" {
		q = q.Where("relation_type = ?", typ)
	}
	var res []*model.Relation
	err := q.Order("create_at DESC").Order("id").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}
