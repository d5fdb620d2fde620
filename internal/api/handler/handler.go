package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/relation-models/internal/service"
	"github.com/d60-Lab/relation-models/pkg/response"
	"github.com/d60-Lab/relation-models/pkg/validation"
)

// Handler HTTP 处理器
type Handler struct {
	relService    service.RelationshipService
	personService service.PersonService
}

func NewHandler(relService service.RelationshipService, personService service.PersonService) *Handler {
	return &Handler{relService: relService, personService: personService}
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Success 200 {object} response.Response
// @Router /healthz [get]
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}

// bindError 绑定失败：字段校验错误 422，其余（JSON 格式等）400
func bindError(c *gin.Context, err error) {
	if details, ok := validation.Details(err); ok {
		response.ValidationError(c, details)
		return
	}
	response.BadRequest(c, err.Error())
}

// serviceError 将服务层错误映射为 HTTP 状态
func serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidArgument):
		response.ValidationError(c, map[string]string{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrConflict):
		response.Conflict(c, "relation or unique field already exists")
	default:
		response.InternalError(c, err)
	}
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 200 {
		pageSize = 10
	}
	return page, pageSize
}
