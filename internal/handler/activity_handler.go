package handler

import (
	"net/http"
	"strconv"

	"github.com/derintolu/frs-partner-network/internal/service"
	"github.com/gin-gonic/gin"
)

type ActivityHandler struct {
	svc *service.ActivityService
}

type PostActivityReq struct {
	Content string `json:"content" binding:"required"`
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

func (h *ActivityHandler) Post(c *gin.Context) {
	actorID := currentUserID(c)
	companyID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req PostActivityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	entry, err := h.svc.Post(c.Request.Context(), actorID, companyID, req.Content)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": entry.ID, "created_at": entry.CreatedAt})
}

func (h *ActivityHandler) List(c *gin.Context) {
	companyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || companyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid company id"})
		return
	}
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	size, _ := strconv.Atoi(c.Query("size"))

	list, next, err := h.svc.List(c.Request.Context(), companyID, cursor, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list":        list,
		"next_cursor": next,
	})
}
