package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/relation-models/internal/model"
	"github.com/d60-Lab/relation-models/internal/service"
	"github.com/d60-Lab/relation-models/pkg/response"
)

type relationRequest struct {
	FromUserID string `json:"from_user_id" binding:"required"`
	ToUserID   string `json:"to_user_id" binding:"required"`
}

type bulkRelationItem struct {
	FromUserID   string `json:"from_user_id" binding:"required"`
	ToUserID     string `json:"to_user_id" binding:"required"`
	RelationType string `json:"relation_type" binding:"required,relationtype"`
}

type bulkRelationRequest struct {
	Relations []bulkRelationItem `json:"relations" binding:"required,min=1,max=1000,dive"`
}

// Follow 关注（已存在任意关系时保持不变）
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body relationRequest true "关注信息"
// @Success 200 {object} response.Response{data=model.Relation}
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rel, err := h.relService.Follow(c.Request.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, rel)
}

// Block 拉黑（关注关系原地转为拉黑）
// @Summary 拉黑用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body relationRequest true "拉黑信息"
// @Success 200 {object} response.Response{data=model.Relation}
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/relations/block [post]
func (h *Handler) Block(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	rel, err := h.relService.Block(c.Request.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, rel)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body relationRequest true "取消关注信息"
// @Success 200 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	removed, err := h.relService.Unfollow(c.Request.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// Unblock 取消拉黑
// @Summary 取消拉黑
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body relationRequest true "取消拉黑信息"
// @Success 200 {object} response.Response
// @Router /api/v1/relations/unblock [post]
func (h *Handler) Unblock(c *gin.Context) {
	var req relationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	removed, err := h.relService.Unblock(c.Request.Context(), req.FromUserID, req.ToUserID)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, gin.H{"removed": removed})
}

// BulkCreate 批量写入关系；重复的 (from, to) 整批失败
// @Summary 批量导入关系
// @Tags 关系链
// @Accept json
// @Produce json
// @Param request body bulkRelationRequest true "关系列表"
// @Success 201 {object} response.Response{data=[]model.Relation}
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/relations/bulk [post]
func (h *Handler) BulkCreate(c *gin.Context) {
	var req bulkRelationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	items := make([]service.RelationInput, len(req.Relations))
	for i, r := range req.Relations {
		items[i] = service.RelationInput{
			FromUserID:   r.FromUserID,
			ToUserID:     r.ToUserID,
			RelationType: model.RelationType(r.RelationType),
		}
	}
	rels, err := h.relService.ImportRelations(c.Request.Context(), items)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Created(c, rels)
}

type userListFunc func(c *gin.Context, userID string, page, pageSize int) (interface{}, error)

func (h *Handler) listUsers(c *gin.Context, fn userListFunc) {
	userID := c.Param("id")
	page, pageSize := pageParams(c)
	list, err := fn(c, userID, page, pageSize)
	if err != nil {
		serviceError(c, err)
		return
	}
	response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}

// ListFollowers 查询某用户的粉丝
// @Summary 粉丝列表
// @Tags 关系链
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	h.listUsers(c, func(c *gin.Context, id string, page, size int) (interface{}, error) {
		return h.relService.Followers(c.Request.Context(), id, page, size)
	})
}

// ListFollowing 查询某用户关注的人
// @Summary 关注列表
// @Tags 关系链
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	h.listUsers(c, func(c *gin.Context, id string, page, size int) (interface{}, error) {
		return h.relService.Following(c.Request.Context(), id, page, size)
	})
}

// ListBlocks 查询某用户拉黑的人
// @Summary 拉黑列表
// @Tags 关系链
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/blocks [get]
func (h *Handler) ListBlocks(c *gin.Context) {
	h.listUsers(c, func(c *gin.Context, id string, page, size int) (interface{}, error) {
		return h.relService.BlockList(c.Request.Context(), id, page, size)
	})
}

// ListRelations 查询某用户有任意关系指向的人
// @Summary 关系用户列表
// @Tags 关系链
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/relations [get]
func (h *Handler) ListRelations(c *gin.Context) {
	h.listUsers(c, func(c *gin.Context, id string, page, size int) (interface{}, error) {
		return h.relService.Relations(c.Request.Context(), id, page, size)
	})
}

// ListFollowerRelations 查询关注某用户的关系记录
// @Summary 粉丝关系记录
// @Tags 关系链
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/follower-relations [get]
func (h *Handler) ListFollowerRelations(c *gin.Context) {
	h.listUsers(c, func(c *gin.Context, id string, page, size int) (interface{}, error) {
		return h.relService.FollowerRelations(c.Request.Context(), id, page, size)
	})
}

// ListFolloweeRelations 查询某用户发出的关注记录
// @Summary 关注关系记录
// @Tags 关系链
// @Param id path string true "用户ID"
// @Success 200 {object} response.Response{data=map[string]interface{}}
// @Router /api/v1/users/{id}/followee-relations [get]
func (h *Handler) ListFolloweeRelations(c *gin.Context) {
	h.listUsers(c, func(c *gin.Context, id string, page, size int) (interface{}, error) {
		return h.relService.FolloweeRelations(c.Request.Context(), id, page, size)
	})
}
