package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/d60-Lab/relation-models/internal/migration"
	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/pkg/database"
)

func setupDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	db, err := database.Open("sqlite", ":memory:", "silent")
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	if err := migration.Run(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

type RepositorySuite struct {
	suite.Suite
	ctx       context.Context
	db        *gorm.DB
	people    PersonRepository
	users     TwitterUserRepository
	relations RelationRepository
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	s.db = setupDB(s.T())
	s.people = NewPersonRepository(s.db)
	s.users = NewTwitterUserRepository(s.db)
	s.relations = NewRelationRepository(s.db)
}

func (s *RepositorySuite) user(name string) *model.TwitterUser {
	u := &model.TwitterUser{Name: name}
	s.Require().NoError(s.users.Create(s.ctx, u))
	return u
}

func (s *RepositorySuite) edge(from, to *model.TwitterUser, typ model.RelationType, at time.Time) *model.Relation {
	rel := &model.Relation{FromUserID: from.ID, ToUserID: to.ID, RelationType: typ, CreateAt: at}
	s.Require().NoError(s.relations.Create(s.ctx, rel))
	return rel
}

func strPtr(s string) *string { return &s }

func (s *RepositorySuite) TestPersonCRUD() {
	p := &model.Person{Name: "kim", ShirtSize: model.ShirtSizeMedium}
	s.Require().NoError(s.people.Create(s.ctx, p))
	s.NotEmpty(p.ID)

	got, err := s.people.Get(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(0, got.Stars)
	s.Nil(got.Nickname)

	got.Nickname = strPtr("kimmy")
	got.ShirtSize = model.ShirtSizeLarge
	s.Require().NoError(s.people.Update(s.ctx, got))

	byNick, err := s.people.GetByNickname(s.ctx, "kimmy")
	s.Require().NoError(err)
	s.Equal(model.ShirtSizeLarge, byNick.ShirtSize)

	// 存储时去掉首尾空白，查询也一样
	byNick, err = s.people.GetByNickname(s.ctx, "  kimmy ")
	s.Require().NoError(err)
	s.Equal(p.ID, byNick.ID)

	updated, err := s.people.IncrementStars(s.ctx, p.ID, 3)
	s.Require().NoError(err)
	s.Equal(3, updated.Stars)

	list, total, err := s.people.List(s.ctx, 0, 10)
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Len(list, 1)

	s.Require().NoError(s.people.Delete(s.ctx, p.ID))
	_, err = s.people.Get(s.ctx, p.ID)
	s.ErrorIs(err, ErrNotFound)
	s.ErrorIs(s.people.Delete(s.ctx, p.ID), ErrNotFound)
}

func (s *RepositorySuite) TestPersonNicknameUnique() {
	s.Require().NoError(s.people.Create(s.ctx, &model.Person{Name: "a", ShirtSize: "S", Nickname: strPtr("dup")}))
	err := s.people.Create(s.ctx, &model.Person{Name: "b", ShirtSize: "S", Nickname: strPtr("dup")})
	s.ErrorIs(err, ErrConflict)

	// 多个空 nickname 不冲突
	s.NoError(s.people.Create(s.ctx, &model.Person{Name: "c", ShirtSize: "M"}))
	s.NoError(s.people.Create(s.ctx, &model.Person{Name: "d", ShirtSize: "L", Nickname: strPtr("")}))
}

func (s *RepositorySuite) TestPersonInvalidShirtSize() {
	err := s.people.Create(s.ctx, &model.Person{Name: "a", ShirtSize: "XL"})
	s.ErrorIs(err, model.ErrInvalidShirtSize)

	p := &model.Person{Name: "b", ShirtSize: "S"}
	s.Require().NoError(s.people.Create(s.ctx, p))
	p.ShirtSize = "Q"
	s.ErrorIs(s.people.Update(s.ctx, p), model.ErrInvalidShirtSize)

	s.ErrorIs(s.people.Update(s.ctx, &model.Person{ID: "missing", Name: "x", ShirtSize: "S"}), ErrNotFound)
	_, err = s.people.IncrementStars(s.ctx, "missing", 1)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestRelationPairUnique() {
	alice, bob := s.user("alice"), s.user("bob")
	s.edge(alice, bob, model.RelationFollow, time.Now())

	err := s.relations.Create(s.ctx, &model.Relation{
		FromUserID: alice.ID, ToUserID: bob.ID, RelationType: model.RelationBlock, CreateAt: time.Now(),
	})
	s.ErrorIs(err, ErrConflict)

	// 反向是另一条有序对
	s.edge(bob, alice, model.RelationBlock, time.Now())
}

func (s *RepositorySuite) TestCreateBatchConflictRollsBack() {
	a, b, c := s.user("a"), s.user("b"), s.user("c")
	s.edge(a, b, model.RelationFollow, time.Now())

	err := s.relations.CreateBatch(s.ctx, []*model.Relation{
		{FromUserID: a.ID, ToUserID: c.ID, RelationType: model.RelationFollow, CreateAt: time.Now()},
		{FromUserID: a.ID, ToUserID: b.ID, RelationType: model.RelationBlock, CreateAt: time.Now()},
	})
	s.ErrorIs(err, ErrConflict)

	_, err = s.relations.Get(s.ctx, a.ID, c.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestInvalidRelationType() {
	a, b := s.user("a"), s.user("b")
	err := s.relations.Create(s.ctx, &model.Relation{FromUserID: a.ID, ToUserID: b.ID, RelationType: "x", CreateAt: time.Now()})
	s.ErrorIs(err, model.ErrInvalidRelationType)
}

func (s *RepositorySuite) TestRelationToUnknownUserFails() {
	a := s.user("a")
	err := s.relations.Create(s.ctx, &model.Relation{FromUserID: a.ID, ToUserID: "ghost", RelationType: model.RelationFollow, CreateAt: time.Now()})
	s.Error(err)
}

func (s *RepositorySuite) TestDerivedViews() {
	alice, bob, carol, dave := s.user("alice"), s.user("bob"), s.user("carol"), s.user("dave")
	base := time.Now().Add(-time.Hour)
	s.edge(alice, bob, model.RelationFollow, base)
	s.edge(carol, bob, model.RelationFollow, base.Add(time.Minute))
	s.edge(dave, bob, model.RelationBlock, base.Add(2*time.Minute))
	s.edge(alice, carol, model.RelationBlock, base.Add(3*time.Minute))

	followers, err := s.users.Followers(s.ctx, bob.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal([]string{"carol", "alice"}, names(followers))

	following, err := s.users.Following(s.ctx, alice.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal([]string{"bob"}, names(following))

	blocks, err := s.users.BlockList(s.ctx, alice.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal([]string{"carol"}, names(blocks))

	related, err := s.users.Related(s.ctx, alice.ID, 0, 10)
	s.Require().NoError(err)
	s.Equal([]string{"carol", "bob"}, names(related))

	page, err := s.users.Followers(s.ctx, bob.ID, 1, 1)
	s.Require().NoError(err)
	s.Equal([]string{"alice"}, names(page))

	incoming, err := s.relations.ListTo(s.ctx, bob.ID, model.RelationFollow, 0, 10)
	s.Require().NoError(err)
	s.Require().Len(incoming, 2)
	s.Equal("from(carol), to(bob), Follow", incoming[0].String())
}

func (s *RepositorySuite) TestDeleteUserCascades() {
	alice, bob, carol := s.user("alice"), s.user("bob"), s.user("carol")
	s.edge(alice, bob, model.RelationFollow, time.Now())
	s.edge(bob, alice, model.RelationBlock, time.Now())
	s.edge(carol, bob, model.RelationFollow, time.Now())

	ids, err := s.users.Delete(s.ctx, alice.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{bob.ID}, ids)

	var count int64
	s.Require().NoError(s.db.Model(&model.Relation{}).
		Where("from_user_id = ? OR to_user_id = ?", alice.ID, alice.ID).Count(&count).Error)
	s.Zero(count)

	s.Require().NoError(s.db.Model(&model.Relation{}).Count(&count).Error)
	s.Equal(int64(1), count)

	_, err = s.users.Delete(s.ctx, alice.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestForeignKeyCascadeAlone() {
	alice, bob := s.user("alice"), s.user("bob")
	s.edge(alice, bob, model.RelationFollow, time.Now())

	// 直接删用户行，依赖数据库的 ON DELETE CASCADE
	s.Require().NoError(s.db.Exec("DELETE FROM twitter_users WHERE id = ?", bob.ID).Error)
	_, err := s.relations.Get(s.ctx, alice.ID, bob.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestTransactionRollback() {
	a, b := s.user("a"), s.user("b")
	err := s.relations.Transaction(s.ctx, func(repo RelationRepository) error {
		if err := repo.Create(s.ctx, &model.Relation{FromUserID: a.ID, ToUserID: b.ID, RelationType: model.RelationFollow, CreateAt: time.Now()}); err != nil {
			return err
		}
		return assert.AnError
	})
	s.ErrorIs(err, assert.AnError)

	_, err = s.relations.Get(s.ctx, a.ID, b.ID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *RepositorySuite) TestDeleteByType() {
	a, b := s.user("a"), s.user("b")
	s.edge(a, b, model.RelationBlock, time.Now())

	deleted, err := s.relations.Delete(s.ctx, a.ID, b.ID, model.RelationFollow)
	s.Require().NoError(err)
	s.False(deleted)

	deleted, err = s.relations.Delete(s.ctx, a.ID, b.ID, model.RelationBlock)
	s.Require().NoError(err)
	s.True(deleted)
}

func (s *RepositorySuite) TestDeleteReturnsCounterparts() {
	a, b, c := s.user("a"), s.user("b"), s.user("c")
	s.edge(a, b, model.RelationFollow, time.Now())
	s.edge(b, a, model.RelationFollow, time.Now())
	s.edge(c, a, model.RelationBlock, time.Now())

	ids, err := s.users.Delete(s.ctx, a.ID)
	s.Require().NoError(err)
	s.ElementsMatch([]string{b.ID, c.ID}, ids)
}

func names(users []*model.TwitterUser) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Name
	}
	return out
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(gorm.ErrDuplicatedKey))
	assert.True(t, IsUniqueViolation(ErrConflict))
	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(gorm.ErrRecordNotFound))

	require.ErrorIs(t, translate(gorm.ErrRecordNotFound), ErrNotFound)
	require.ErrorIs(t, translate(gorm.ErrDuplicatedKey), ErrConflict)
}
