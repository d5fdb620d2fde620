package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/internal/repository"
)

// PersonInput 创建/更新参数；nil 字段在更新时保持原值
type PersonInput struct {
	Name      *string
	ShirtSize *model.ShirtSize
	Nickname  *string
	Stars     *int
}

type PersonService interface {
	Create(ctx context.Context, in PersonInput) (*model.Person, error)
	Get(ctx context.Context, id string) (*model.Person, error)
	Update(ctx context.Context, id string, in PersonInput) (*model.Person, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]*model.Person, int64, error)
	AddStars(ctx context.Context, id string, delta int) (*model.Person, error)
}

type personService struct {
	repo repository.PersonRepository
}

func NewPersonService(repo repository.PersonRepository) PersonService {
	return &personService{repo: repo}
}

func (s *personService) Create(ctx context.Context, in PersonInput) (*model.Person, error) {
	if in.Name == nil || *in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if in.ShirtSize == nil {
		return nil, fmt.Errorf("%w: shirt_size is required", ErrInvalidArgument)
	}
	p := &model.Person{Name: *in.Name, ShirtSize: *in.ShirtSize, Nickname: in.Nickname}
	if in.Stars != nil {
		p.Stars = *in.Stars
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, modelError(err)
	}
	return p, nil
}

func (s *personService) Get(ctx context.Context, id string) (*model.Person, error) {
	return s.repo.Get(ctx, id)
}

func (s *personService) Update(ctx context.Context, id string, in PersonInput) (*model.Person, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, fmt.Errorf("%w: name is required", ErrInvalidArgument)
		}
		p.Name = *in.Name
	}
	if in.ShirtSize != nil {
		p.ShirtSize = *in.ShirtSize
	}
	if in.Nickname != nil {
		p.Nickname = in.Nickname
	}
	if in.Stars != nil {
		p.Stars = *in.Stars
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, modelError(err)
	}
	return p, nil
}

func (s *personService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *personService) List(ctx context.Context, page, pageSize int) ([]*model.Person, int64, error) {
	offset, limit := pageToOffset(page, pageSize)
	return s.repo.List(ctx, offset, limit)
}

func (s *personService) AddStars(ctx context.Context, id string, delta int) (*model.Person, error) {
	if delta == 0 {
		return s.repo.Get(ctx, id)
	}
	return s.repo.IncrementStars(ctx, id, delta)
}

// modelError 模型钩子的校验错误统一成 ErrInvalidArgument
func modelError(err error) error {
	if errors.Is(err, model.ErrInvalidShirtSize) || errors.Is(err, model.ErrNicknameTooLong) {
		return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	return err
}
