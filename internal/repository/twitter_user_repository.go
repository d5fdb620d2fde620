package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/relation-models/internal/model"
)

type TwitterUserRepository interface {
	Create(ctx context.Context, u *model.TwitterUser) error
	Get(ctx context.Context, id string) (*model.TwitterUser, error)
	List(ctx context.Context, offset, limit int) ([]*model.TwitterUser, int64, error)
	// Delete 删除用户及其全部边，返回删除前与其有关系的用户 ID
	Delete(ctx context.Context, id string) ([]string, error)

	// Followers 关注 userID 的用户
	Followers(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error)
	// Following userID 关注的用户
	Following(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error)
	// BlockList userID 拉黑的用户
	BlockList(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error)
	// Related userID 有任意关系指向的用户（多对多 relations）
	Related(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error)
}

type twitterUserRepository struct {
	db *gorm.DB
}

func NewTwitterUserRepository(db *gorm.DB) TwitterUserRepository {
	return &twitterUserRepository{db: db}
}

func (r *twitterUserRepository) Create(ctx context.Context, u *model.TwitterUser) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return translate(r.db.WithContext(ctx).Create(u).Error)
}

func (r *twitterUserRepository) Get(ctx context.Context, id string) (*model.TwitterUser, error) {
	var u model.TwitterUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (r *twitterUserRepository) List(ctx context.Context, offset, limit int) ([]*model.TwitterUser, int64, error) {
	offset, limit = normalizePage(offset, limit)
	var total int64
	if err := r.db.WithContext(ctx).Model(&model.TwitterUser{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var res []*model.TwitterUser
	err := r.db.WithContext(ctx).Order("created_at, id").Offset(offset).Limit(limit).Find(&res).Error
	return res, total, err
}

// Delete 删除用户及其所有出入边。外键本身带 ON DELETE CASCADE，
// 这里在同一事务里显式删除，保证外键检查关闭的连接上结果一致。
// postgres 上先锁住用户行，并发建边的外键检查会等到本事务结束，
// 因此返回的对端集合是完整的。
func (r *twitterUserRepository) Delete(ctx context.Context, id string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		var u model.TwitterUser
		if err := q.Where("id = ?", id).First(&u).Error; err != nil {
			return translate(err)
		}

		var err error
		if ids, err = counterparts(tx, id); err != nil {
			return err
		}
		if err := tx.Where("from_user_id = ? OR to_user_id = ?", id, id).
			Delete(&model.Relation{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&model.TwitterUser{}).Error
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// counterparts 与 userID 有任意方向关系的用户 ID（去重）
func counterparts(db *gorm.DB, userID string) ([]string, error) {
	var out, in []string
	if err := db.Model(&model.Relation{}).
		Where("from_user_id = ?", userID).Pluck("to_user_id", &out).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Relation{}).
		Where("to_user_id = ?", userID).Pluck("from_user_id", &in).Error; err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(out)+len(in))
	ids := make([]string, 0, len(out)+len(in))
	for _, id := range append(out, in...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *twitterUserRepository) Followers(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error) {
	return r.usersVia(ctx, incoming, userID, model.RelationFollow, offset, limit)
}

func (r *twitterUserRepository) Following(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error) {
	return r.usersVia(ctx, outgoing, userID, model.RelationFollow, offset, limit)
}

func (r *twitterUserRepository) BlockList(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error) {
	return r.usersVia(ctx, outgoing, userID, model.RelationBlock, offset, limit)
}

func (r *twitterUserRepository) Related(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error) {
	return r.usersVia(ctx, outgoing, userID, "", offset, limit)
}

type direction int

const (
	outgoing direction = iota // userID -> 结果用户
	incoming                  // 结果用户 -> userID
)

// usersVia 通过 relations 连表查询另一端用户，按关系时间倒序；typ 为空表示不限类型
func (r *twitterUserRepository) usersVia(ctx context.Context, dir direction, userID string, typ model.RelationType, offset, limit int) ([]*model.TwitterUser, error) {
	offset, limit = normalizePage(offset, limit)

	q := r.db.WithContext(ctx).Model(&model.TwitterUser{}).Select("twitter_users.*")
	if dir == outgoing {
		q = q.Joins("JOIN relations ON relations.to_user_id = twitter_users.id").
			Where("relations.from_user_id = ?", userID)
	} else {
		q = q.Joins("JOIN relations ON relations.from_user_id = twitter_users.id").
			Where("relations.to_user_id = ?", userID)
	}
	if typ != "" {
		q = q.Where("relations.relation_type = ?", typ)
	}

	var res []*model.TwitterUser
	err := q.Order("relations.create_at DESC").Order("twitter_users.id").
		Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}
