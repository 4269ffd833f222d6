package handlers

import (
	"net/http"

	"orienteering-backend/internal/services"
	"orienteering-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	questService *services.QuestService
	hub          *ws.Hub
}

func NewQuestionHandler(questService *services.QuestService, hub *ws.Hub) *QuestionHandler {
	return &QuestionHandler{questService: questService, hub: hub}
}

type CreateQuestionRequest struct {
	QuestionText string `json:"question_text" binding:"required" example:"Whose monument?"`
	Location     string `json:"location" example:"58.376659,26.725145"`
}

type RecordAnswerRequest struct {
	Answer string `json:"answer" example:"Eduard Tubin"`
}

// ListQuestions godoc
// @Summary      List questions of a quest
// @Tags         questions
// @Produce      json
// @Param        id path int true "Quest ID"
// @Success      200 {array} Question
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quests/{id}/questions [get]
func (h *QuestionHandler) ListQuestions(c *gin.Context) {
	questID, ok := parseID(c, "quest")
	if !ok {
		return
	}

	questions, err := h.questService.ListQuestions(c.Request.Context(), questID)
	if err != nil {
		respondError(c, err, "quest not found")
		return
	}
	c.JSON(http.StatusOK, questions)
}

// CreateQuestion godoc
// @Summary      Add a question to a quest
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        id path int true "Quest ID"
// @Param        request body CreateQuestionRequest true "Question data"
// @Success      201 {object} Question
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/quests/{id}/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	questID, ok := parseID(c, "quest")
	if !ok {
		return
	}

	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.questService.AddQuestion(c.Request.Context(), questID, req.QuestionText, req.Location)
	if err != nil {
		respondError(c, err, "quest not found")
		return
	}

	h.hub.Broadcast(questID, ws.WSMessage{Type: ws.EventQuestionAdded, Data: question})
	c.JSON(http.StatusCreated, question)
}

// RecordAnswer godoc
// @Summary      Record an answer
// @Tags         questions
// @Accept       json
// @Produce      json
// @Param        id path int true "Question ID"
// @Param        request body RecordAnswerRequest true "Answer"
// @Success      200 {object} Question
// @Failure      404 {object} ErrorResponse
// @Router       /api/v1/questions/{id}/answer [put]
func (h *QuestionHandler) RecordAnswer(c *gin.Context) {
	questionID, ok := parseID(c, "question")
	if !ok {
		return
	}

	var req RecordAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	question, err := h.questService.RecordAnswer(c.Request.Context(), questionID, req.Answer)
	if err != nil {
		respondError(c, err, "question not found")
		return
	}

	h.hub.Broadcast(question.QuestID, ws.WSMessage{Type: ws.EventAnswerSaved, Data: question})
	c.JSON(http.StatusOK, question)
}
