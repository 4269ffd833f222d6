package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"orienteering-backend/internal/services"
	"orienteering-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type TransferHandler struct {
	questService *services.QuestService
	hub          *ws.Hub
	qrSize       int
}

func NewTransferHandler(questService *services.QuestService, hub *ws.Hub, qrSize int) *TransferHandler {
	return &TransferHandler{questService: questService, hub: hub, qrSize: qrSize}
}

type ExportResponse struct {
	Payload string `json:"payload" example:"qrexport://quest?data=eyJxdWVzdCI6ey4uLn19"`
}

type ImportRequest struct {
	Payload string `json:"payload" binding:"required" example:"qrexport://quest?data=eyJxdWVzdCI6ey4uLn19"`
}

// ExportQuest godoc
// @Summary      Export a quest
// @Description  Encode a quest and its questions as a qrexport:// payload, or as a QR code image with format=png
// @Tags         transfer
// @Produce      json
// @Produce      png
// @Param        id path int true "Quest ID"
// @Param        format query string false "json (default) or png"
// @Param        size query int false "QR image size in pixels"
// @Success      200 {object} ExportResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /api/v1/quests/{id}/export [get]
func (h *TransferHandler) ExportQuest(c *gin.Context) {
	questID, ok := parseID(c, "quest")
	if !ok {
		return
	}

	format := c.DefaultQuery("format", "json")
	switch format {
	case "json":
		payload, err := h.questService.ExportQuest(c.Request.Context(), questID)
		if err != nil {
			respondError(c, err, "quest not found")
			return
		}
		c.JSON(http.StatusOK, ExportResponse{Payload: payload})

	case "png":
		size := h.qrSize
		if raw := c.Query("size"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 64 || parsed > 2048 {
				c.JSON(http.StatusBadRequest, ErrorResponse{Error: "size must be between 64 and 2048"})
				return
			}
			size = parsed
		}
		png, err := h.questService.ExportQuestQR(c.Request.Context(), questID, size)
		if err != nil {
			respondError(c, err, "quest not found")
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("inline; filename=\"quest_%d.png\"", questID))
		c.Data(http.StatusOK, "image/png", png)

	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "format must be json or png"})
	}
}

// ImportQuest godoc
// @Summary      Import a quest
// @Description  Decode a qrexport:// payload (or raw bundle JSON) and create or update the quest with that code, replacing its questions
// @Tags         transfer
// @Accept       json
// @Produce      json
// @Param        request body ImportRequest true "Transport payload"
// @Success      200 {object} MergeResult
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /api/v1/import [post]
func (h *TransferHandler) ImportQuest(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	result, err := h.questService.ImportPayload(c.Request.Context(), req.Payload)
	if err != nil {
		respondError(c, err, "")
		return
	}

	h.hub.Broadcast(result.QuestID, ws.WSMessage{Type: ws.EventQuestImported, Data: result})
	c.JSON(http.StatusOK, result)
}
