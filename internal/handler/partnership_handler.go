package handler

import (
	"net/http"
	"strconv"

	"github.com/derintolu/frs-partner-network/internal/service"
	"github.com/gin-gonic/gin"
)

type PartnershipHandler struct {
	svc *service.PartnershipService
}

type InviteReq struct {
	Email   string `json:"email" binding:"required"`
	Name    string `json:"name" binding:"required"`
	Message string `json:"message"`
}

type RespondReq struct {
	Decision string `json:"decision" binding:"required,oneof=accept decline"`
}

func NewPartnershipHandler(svc *service.PartnershipService) *PartnershipHandler {
	return &PartnershipHandler{svc: svc}
}

// Invite creates or re-sends an invitation; the response says which happened.
func (h *PartnershipHandler) Invite(c *gin.Context) {
	actorID := currentUserID(c)
	companyID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req InviteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	p, resent, err := h.svc.Invite(c.Request.Context(), actorID, companyID, req.Email, req.Name, req.Message)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":     p.ID,
		"status": p.Status,
		"resent": resent,
	})
}

func (h *PartnershipHandler) Resend(c *gin.Context) {
	actorID := currentUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	p, err := h.svc.Resend(c.Request.Context(), actorID, id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":                p.ID,
		"status":            p.Status,
		"status_changed_at": p.StatusChangedAt,
	})
}

func (h *PartnershipHandler) ListByCompany(c *gin.Context) {
	actorID := currentUserID(c)
	companyID, _ := strconv.ParseUint(c.Param("id"), 10, 64)
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListByCompany(c.Request.Context(), actorID, companyID, page, size)
	if err != nil {
		fail(c, err)
		return
	}

	type row struct {
		ID           uint64 `json:"id"`
		InviteeName  string `json:"invitee_name"`
		InviteeEmail string `json:"invitee_email"`
		Status       string `json:"status"`
		Progress     int    `json:"progress"`
	}
	out := make([]row, 0, len(list))
	for i := range list {
		p := list[i]
		out = append(out, row{
			ID:           p.ID,
			InviteeName:  p.InviteeName,
			InviteeEmail: p.InviteeEmail,
			Status:       string(p.Status),
			Progress:     h.svc.EstimateProgress(&p),
		})
	}
	c.JSON(http.StatusOK, gin.H{"list": out})
}

// View is the public invite-link endpoint: marks pending invitations viewed.
func (h *PartnershipHandler) View(c *gin.Context) {
	token := c.Param("token")

	p, err := h.svc.View(c.Request.Context(), token)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"invitee_name": p.InviteeName,
		"message":      p.Message,
		"status":       p.Status,
		"progress":     h.svc.EstimateProgress(p),
	})
}

// Respond applies the invitee's accept/decline decision.
func (h *PartnershipHandler) Respond(c *gin.Context) {
	token := c.Param("token")

	var req RespondReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	p, err := h.svc.Respond(c.Request.Context(), token, req.Decision == "accept")
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": p.Status})
}
