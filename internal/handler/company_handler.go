package handler

import (
	"net/http"
	"strconv"

	"github.com/derintolu/frs-partner-network/internal/service"
	"github.com/gin-gonic/gin"
)

type CompanyHandler struct {
	svc *service.CompanyService
}

type CompanyCreateReq struct {
	Name           string `json:"name"`
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	ButtonStyle    string `json:"button_style"`
}

type BrandingReq struct {
	PrimaryColor   string `json:"primary_color"`
	SecondaryColor string `json:"secondary_color"`
	ButtonStyle    string `json:"button_style"`
}

func NewCompanyHandler(svc *service.CompanyService) *CompanyHandler {
	return &CompanyHandler{svc: svc}
}

func (h *CompanyHandler) Create(c *gin.Context) {
	userID := currentUserID(c)

	var req CompanyCreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	company, err := h.svc.CreateCompany(c.Request.Context(), userID, req.Name, req.PrimaryColor, req.SecondaryColor, req.ButtonStyle)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":   company.ID,
		"name": company.Name,
	})
}

func (h *CompanyHandler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid company id"})
		return
	}
	company, err := h.svc.GetCompany(c.Request.Context(), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, company)
}

func (h *CompanyHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	size, _ := strconv.Atoi(c.Query("size"))

	list, err := h.svc.ListCompanies(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "list failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": list})
}

func (h *CompanyHandler) UpdateBranding(c *gin.Context) {
	userID := currentUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var req BrandingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}

	if err := h.svc.UpdateBranding(c.Request.Context(), userID, id, req.PrimaryColor, req.SecondaryColor, req.ButtonStyle); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "ok"})
}

func (h *CompanyHandler) Delete(c *gin.Context) {
	userID := currentUserID(c)
	id, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	if err := h.svc.DeleteCompany(c.Request.Context(), userID, id); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}
