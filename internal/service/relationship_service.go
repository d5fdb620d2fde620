package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/internal/repository"
	"github.com/d60-Lab/relation-models/pkg/logger"
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNotFound        = repository.ErrNotFound
	ErrConflict        = repository.ErrConflict
)

// UserNameMaxLen 用户名最大长度
const UserNameMaxLen = 50

const defaultMaxRetries = 3

// RelationInput 批量导入的一条边
type RelationInput struct {
	FromUserID   string
	ToUserID     string
	RelationType model.RelationType
}

// RelationshipService 关系链服务
type RelationshipService interface {
	CreateUser(ctx context.Context, name string) (*model.TwitterUser, error)
	GetUser(ctx context.Context, userID string) (*model.TwitterUser, error)
	ListUsers(ctx context.Context, page, pageSize int) ([]*model.TwitterUser, int64, error)
	DeleteUser(ctx context.Context, userID string) error

	// Follow 不存在边时创建关注；已有边（包括拉黑）保持不变。返回 from->to 的边
	Follow(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error)
	// Block 无边则创建拉黑；关注边原地改为拉黑并刷新时间；已拉黑则不变
	Block(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error)
	Unfollow(ctx context.Context, fromUserID, toUserID string) (bool, error)
	Unblock(ctx context.Context, fromUserID, toUserID string) (bool, error)
	// ImportRelations 直接批量写边，不做 follow/block 的合并；重复的有序对返回 ErrConflict
	ImportRelations(ctx context.Context, items []RelationInput) ([]*model.Relation, error)

	Followers(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error)
	Following(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error)
	BlockList(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error)
	Relations(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error)
	FollowerRelations(ctx context.Context, userID string, page, pageSize int) ([]*model.Relation, error)
	FolloweeRelations(ctx context.Context, userID string, page, pageSize int) ([]*model.Relation, error)
}

// Option 服务可选项
type Option func(*relationshipService)

// WithClock 替换时间源（测试用）
func WithClock(now func() time.Time) Option {
	return func(s *relationshipService) { s.now = now }
}

// WithMaxRetries 唯一键冲突时的最大重试次数
func WithMaxRetries(n int) Option {
	return func(s *relationshipService) { s.maxRetries = n }
}

type relationshipService struct {
	users      repository.TwitterUserRepository
	relations  repository.RelationRepository
	cache      *RelationCache
	now        func() time.Time
	maxRetries int
}

func NewRelationshipService(users repository.TwitterUserRepository, relations repository.RelationRepository, cache *RelationCache, opts ...Option) RelationshipService {
	s := &relationshipService{
		users:      users,
		relations:  relations,
		cache:      cache,
		now:        time.Now,
		maxRetries: defaultMaxRetries,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *relationshipService) CreateUser(ctx context.Context, name string) (*model.TwitterUser, error) {
	name = strings.TrimSpace(name)
	if name == "" || utf8.RuneCountInString(name) > UserNameMaxLen {
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidArgument, UserNameMaxLen)
	}
	u := &model.TwitterUser{Name: name}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *relationshipService) GetUser(ctx context.Context, userID string) (*model.TwitterUser, error) {
	return s.users.Get(ctx, userID)
}

func (s *relationshipService) ListUsers(ctx context.Context, page, pageSize int) ([]*model.TwitterUser, int64, error) {
	offset, limit := pageToOffset(page, pageSize)
	return s.users.List(ctx, offset, limit)
}

func (s *relationshipService) DeleteUser(ctx context.Context, userID string) error {
	counterparts, err := s.users.Delete(ctx, userID)
	if err != nil {
		return err
	}
	s.cache.InvalidateUser(ctx, append(counterparts, userID)...)
	return nil
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error) {
	return s.mutate(ctx, fromUserID, toUserID, model.RelationFollow, nil)
}

func (s *relationshipService) Block(ctx context.Context, fromUserID, toUserID string) (*model.Relation, error) {
	return s.mutate(ctx, fromUserID, toUserID, model.RelationBlock, func(rel *model.Relation) bool {
		if rel.RelationType != model.RelationFollow {
			return false
		}
		rel.RelationType = model.RelationBlock
		rel.CreateAt = s.now()
		return true
	})
}

// mutate 读-判断-写放在一个事务中：不存在则以 typ 新建，存在则交给 update 决定是否修改。
// 并发下两个事务可能同时判定"不存在"，后提交者撞唯一键，整个事务重试。
func (s *relationshipService) mutate(ctx context.Context, fromUserID, toUserID string, typ model.RelationType, update func(*model.Relation) bool) (*model.Relation, error) {
	if err := s.checkUsers(ctx, fromUserID, toUserID); err != nil {
		return nil, err
	}

	var (
		result  *model.Relation
		changed bool
	)
	for attempt := 0; ; attempt++ {
		changed = false
		err := s.relations.Transaction(ctx, func(repo repository.RelationRepository) error {
			rel, err := repo.GetForUpdate(ctx, fromUserID, toUserID)
			if errors.Is(err, repository.ErrNotFound) {
				rel = &model.Relation{
					FromUserID:   fromUserID,
					ToUserID:     toUserID,
					RelationType: typ,
					CreateAt:     s.now(),
				}
				if err := repo.Create(ctx, rel); err != nil {
					return err
				}
				result, changed = rel, true
				return nil
			}
			if err != nil {
				return err
			}
			if update != nil && update(rel) {
				if err := repo.Save(ctx, rel); err != nil {
					return err
				}
				changed = true
			}
			result = rel
			return nil
		})
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrConflict) && attempt < s.maxRetries {
			logger.Debug("relation write conflict, retrying",
				zap.String("from", fromUserID), zap.String("to", toUserID), zap.Int("attempt", attempt+1))
			continue
		}
		return nil, err
	}

	if changed {
		s.cache.InvalidateEdge(ctx, fromUserID, toUserID)
	}
	return result, nil
}

func (s *relationshipService) checkUsers(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if id == "" {
			return fmt.Errorf("%w: user id is required", ErrInvalidArgument)
		}
		if _, err := s.users.Get(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("user %s: %w", id, ErrNotFound)
			}
			return err
		}
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	return s.remove(ctx, fromUserID, toUserID, model.RelationFollow)
}

func (s *relationshipService) Unblock(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	return s.remove(ctx, fromUserID, toUserID, model.RelationBlock)
}

func (s *relationshipService) remove(ctx context.Context, fromUserID, toUserID string, typ model.RelationType) (bool, error) {
	if fromUserID == "" || toUserID == "" {
		return false, fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	deleted, err := s.relations.Delete(ctx, fromUserID, toUserID, typ)
	if err != nil {
		return false, err
	}
	if deleted {
		s.cache.InvalidateEdge(ctx, fromUserID, toUserID)
	}
	return deleted, nil
}

func (s *relationshipService) ImportRelations(ctx context.Context, items []RelationInput) ([]*model.Relation, error) {
	rels := make([]*model.Relation, 0, len(items))
	seen := make(map[string]struct{})
	ids := make([]string, 0)
	now := s.now()
	for i, it := range items {
		if it.FromUserID == "" || it.ToUserID == "" {
			return nil, fmt.Errorf("%w: item %d: user id is required", ErrInvalidArgument, i)
		}
		if !it.RelationType.Valid() {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidArgument, i, model.ErrInvalidRelationType)
		}
		rels = append(rels, &model.Relation{
			FromUserID:   it.FromUserID,
			ToUserID:     it.ToUserID,
			RelationType: it.RelationType,
			CreateAt:     now,
		})
		for _, id := range []string{it.FromUserID, it.ToUserID} {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	if err := s.checkUsers(ctx, ids...); err != nil {
		return nil, err
	}
	if err := s.relations.CreateBatch(ctx, rels); err != nil {
		return nil, err
	}
	for _, rel := range rels {
		s.cache.InvalidateEdge(ctx, rel.FromUserID, rel.ToUserID)
	}
	return rels, nil
}

func (s *relationshipService) Followers(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error) {
	return s.view(ctx, viewFollowers, userID, page, pageSize, s.users.Followers)
}

func (s *relationshipService) Following(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error) {
	return s.view(ctx, viewFollowing, userID, page, pageSize, s.users.Following)
}

func (s *relationshipService) BlockList(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error) {
	return s.view(ctx, viewBlocks, userID, page, pageSize, s.users.BlockList)
}

func (s *relationshipService) Relations(ctx context.Context, userID string, page, pageSize int) ([]*model.TwitterUser, error) {
	return s.view(ctx, viewRelated, userID, page, pageSize, s.users.Related)
}

type viewLoader func(ctx context.Context, userID string, offset, limit int) ([]*model.TwitterUser, error)

func (s *relationshipService) view(ctx context.Context, view, userID string, page, pageSize int, load viewLoader) ([]*model.TwitterUser, error) {
	offset, limit := pageToOffset(page, pageSize)
	return s.cache.Load(ctx, view, userID, offset, limit, func() ([]*model.TwitterUser, error) {
		return load(ctx, userID, offset, limit)
	})
}

func (s *relationshipService) FollowerRelations(ctx context.Context, userID string, page, pageSize int) ([]*model.Relation, error) {
	offset, limit := pageToOffset(page, pageSize)
	return s.relations.ListTo(ctx, userID, model.RelationFollow, offset, limit)
}

func (s *relationshipService) FolloweeRelations(ctx context.Context, userID string, page, pageSize int) ([]*model.Relation, error) {
	offset, limit := pageToOffset(page, pageSize)
	return s.relations.ListFrom(ctx, userID, model.RelationFollow, offset, limit)
}

func pageToOffset(page, pageSize int) (offset, limit int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	return (page - 1) * pageSize, pageSize
}
