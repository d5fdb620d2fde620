package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/internal/service"
	"github.com/d60-Lab/relation-models/pkg/response"
)

type createPersonRequest struct {
	Name      string  `json:"name" binding:"required,max=60"`
	ShirtSize string  `json:"shirt_size" binding:"required,shirtsize"`
	Nickname  *string `json:"nickname" binding:"omitempty,max=50"`
	Stars     *int    `json:"stars"`
}

type updatePersonRequest struct {
	Name      *string `json:"name" binding:"omitempty,min=1,max=60"`
	ShirtSize *string `json:"shirt_size" binding:"omitempty,shirtsize"`
	Nickname  *string `json:"nickname" binding:"omitempty,max=50"`
	Stars     *int    `json:"stars"`
}

type starsRequest struct {
	Delta int `json:"delta" binding:"required"`
}

func shirtSizePtr(s *string) *model.ShirtSize {
	if s == nil {
		return nil
	}
	v := model.ShirtSize(*s)
	return &v
}

// CreatePerson 创建人员
// @Summary 创建人员
// @Description shirt_size: S,M,L 중에 선택
// @Tags 人员
// @Accept json
// @Produce json
// @Param request body createPersonRequest true "人员信息"
// @Success 201 {object} response.Response{data=model.Person}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/people [post]
func (h *Handler) CreatePerson(c *gin.Context) {
	var req createPersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.personService.Create(c.Request.Context(), service.PersonInput{
		Name:      &req.Name,
		ShirtSize: shirtSizePtr(&req.ShirtSize),
		Nickname:  req.Nickname,
		Stars:     req.Stars,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, p)
}

// GetPerson 查询人员
// @Summary 查询人员
// @Tags 人员
// @Param id path string true "人员ID"
// @Success 200 {object} response.Response{data=model.Person}
// @Failure 404 {object} response.Response
// @Router /api/v1/people/{id} [get]
func (h *Handler) GetPerson(c *gin.Context) {
	p, err := h.personService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, p)
}

// UpdatePerson 部分更新人员
// @Summary 更新人员
// @Tags 人员
// @Accept json
// @Produce json
// @Param id path string true "人员ID"
// @Param request body updatePersonRequest true "更新字段"
// @Success 200 {object} response.Response{data=model.Person}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/people/{id} [patch]
func (h *Handler) UpdatePerson(c *gin.Context) {
	var req updatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.personService.Update(c.Request.Context(), c.Param("id"), service.PersonInput{
		Name:      req.Name,
		ShirtSize: shirtSizePtr(req.ShirtSize),
		Nickname:  req.Nickname,
		Stars:     req.Stars,
	})
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePerson 删除人员
// @Summary 删除人员
// @Tags 人员
// @Param id path string true "人员ID"
// @Success 200 {object} response.Response
// @Router /api/v1/people/{id} [delete]
func (h *Handler) DeletePerson(c *gin.Context) {
	if err := h.personService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, nil)
}

// ListPeople 人员列表
// @Summary 人员列表
// @Tags 人员
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/people [get]
func (h *Handler) ListPeople(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.personService.List(c.Request.Context(), page, pageSize)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "total": total, "list": list})
}

// AddStars 累加 stars
// @Summary 增加 stars
// @Tags 人员
// @Accept json
// @Param id path string true "人员ID"
// @Param request body starsRequest true "增量"
// @Success 200 {object} response.Response{data=model.Person}
// @Router /api/v1/people/{id}/stars [post]
func (h *Handler) AddStars(c *gin.Context) {
	var req starsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	p, err := h.personService.AddStars(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, p)
}
