package handlers

import (
	"net/http"

	"orienteering-backend/internal/services"
	"orienteering-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type QuestHandler struct {
	questService *services.QuestService
	hub          *ws.Hub
}

func NewQuestHandler(questService *services.QuestService, hub *ws.Hub) *QuestHandler {
	return &QuestHandler{questService: questService, hub: hub}
}

type CreateQuestRequest struct {
	Title string `json:"title" binding:"required,max=255" example:"Tartu old town"`
	Code  string `json:"code" binding:"max=64" example:"ABC12"`
}

type JoinQuestRequest struct {
	Code string `json:"code" binding:"required" example:"ABC12"`
}

// CreateQuest godoc
// @Summary      Create a quest
// @Description  Create a quest under the requested join code, or a generated one if it is empty or taken
// @Tags         quests
// @Accept       json
// @Produce      json
// @Param        request body CreateQuestRequest true "Quest data"
// @Success      201 {object} Quest
// @Failure      400 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /api/v1/quests [post]
func (h *QuestHandler) CreateQuest(c *gin.Context) {
	var req CreateQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quest, err := h.questService.CreateQuest(c.Request.Context(), req.Title, req.Code)
	if err != nil {
		respondError(c, err, "")
		return
	}

	c.JSON(http.StatusCreated, quest)
}

// ListQuests godoc
// @Summary      List quests
// @Tags         quests
// @Produce      json
// @Success      200 {array} Quest
// @Router       /api/v1/quests [get]
func (h *QuestHandler) ListQuests(c *gin.Context) {
	quests, err := h.questService.ListQuests(c.Request.Context())
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, quests)
}

// GetQuest godoc
// @Summary      Get a quest
// @Description  Get a quest with all of its questions
// @Tags         quests
// @Produce      json
// @Param        id path int true "Quest ID"
// @Success      200 {object} Quest
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quests/{id} [get]
func (h *QuestHandler) GetQuest(c *gin.Context) {
	questID, ok := parseID(c, "quest")
	if !ok {
		return
	}

	quest, err := h.questService.GetQuest(c.Request.Context(), questID)
	if err != nil {
		respondError(c, err, "quest not found")
		return
	}
	c.JSON(http.StatusOK, quest)
}

// DeleteQuest godoc
// @Summary      Delete a quest
// @Description  Delete a quest and all its questions
// @Tags         quests
// @Produce      json
// @Param        id path int true "Quest ID"
// @Success      200 {object} MessageResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quests/{id} [delete]
func (h *QuestHandler) DeleteQuest(c *gin.Context) {
	questID, ok := parseID(c, "quest")
	if !ok {
		return
	}

	if err := h.questService.DeleteQuest(c.Request.Context(), questID); err != nil {
		respondError(c, err, "quest not found")
		return
	}

	h.hub.Broadcast(questID, ws.WSMessage{Type: ws.EventQuestDeleted, Data: gin.H{"quest_id": questID}})
	c.JSON(http.StatusOK, MessageResponse{Message: "quest deleted"})
}

// JoinQuest godoc
// @Summary      Join a quest
// @Description  Look up a quest by its join code
// @Tags         quests
// @Accept       json
// @Produce      json
// @Param        request body JoinQuestRequest true "Join code"
// @Success      200 {object} Quest
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quests/join [post]
func (h *QuestHandler) JoinQuest(c *gin.Context) {
	var req JoinQuestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	quest, err := h.questService.JoinQuest(c.Request.Context(), req.Code)
	if err != nil {
		respondError(c, err, "invalid lobby code")
		return
	}
	c.JSON(http.StatusOK, quest)
}
