package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/relation-models/pkg/response"
)

type createUserRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body createUserRequest true "用户信息"
// @Success 201 {object} response.Response{data=model.TwitterUser}
// @Failure 422 {object} response.Response
// @Router /api/v1/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	u, err := h.relService.CreateUser(c.Request.Context(), req.Name)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, u)
}

// GetUser 查询用户
// @Summary 查询用户
// @Tags 用户
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=model.TwitterUser}
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	u, err := h.relService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, u)
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	page, pageSize := pageParams(c)
	list, total, err := h.relService.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "total": total, "list": list})
}

// DeleteUser 删除用户（级联删除其全部关系）
// @Summary 删除用户
// @Tags 用户
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.relService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, nil)
}
