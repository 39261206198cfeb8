package handler

import (
	"net/http"
	"strconv"

	"github.com/derintolu/frs-partner-network/internal/service"
	"github.com/gin-gonic/gin"
)

type IngestHandler struct {
	svc *service.IngestService
}

func NewIngestHandler(svc *service.IngestService) *IngestHandler {
	return &IngestHandler{svc: svc}
}

// Import accepts either a multipart CSV upload (field "file") or a JSON body
// with a "rows" array. Row failures come back per row; the request itself only
// fails on bad input or authorization.
func (h *IngestHandler) Import(c *gin.Context) {
	actorID := currentUserID(c)
	companyID, _ := strconv.ParseUint(c.Param("id"), 10, 64)

	var rows []service.RawRow
	if file, err := c.FormFile("file"); err == nil {
		f, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "could not read upload"})
			return
		}
		defer f.Close()
		rows, err = service.ParseCSV(f)
		if err != nil {
			fail(c, err)
			return
		}
	} else {
		var req struct {
			Rows []service.RawRow `json:"rows" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
			return
		}
		rows = req.Rows
	}

	result, err := h.svc.Ingest(c.Request.Context(), actorID, companyID, rows)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
