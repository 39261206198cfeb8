package handler

import (
	"net/http"
	"strconv"

	"github.com/derintolu/frs-partner-network/internal/model"
	"github.com/derintolu/frs-partner-network/internal/service"
	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	svc *service.MembershipService
}

type ChangeRoleReq struct {
	UserID uint64 `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

func NewMembershipHandler(svc *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{svc: svc}
}

func (h *MembershipHandler) List(c *gin.Context) {
	companyID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || companyID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid company id"})
		return
	}

	members, err := h.svc.ListMembers(c.Request.Context(), companyID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": members})
}

func (h *MembershipHandler) ChangeRole(c *gin.Context) {
	actorID := currentUserID(c)
	companyID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req ChangeRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.ChangeRole(c.Request.Context(), actorID, companyID, req.UserID, model.Role(req.Role)); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *MembershipHandler) Remove(c *gin.Context) {
	actorID := currentUserID(c)
	companyID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	userID, err := strconv.ParseUint(c.Param("userID"), 10, 64)
	if err != nil || userID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid user id"})
		return
	}

	if err := h.svc.RemoveMember(c.Request.Context(), actorID, companyID, userID); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "removed"})
}
