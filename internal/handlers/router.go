package handlers

import (
	"orienteering-backend/internal/services"
	"orienteering-backend/internal/ws"

	"github.com/gin-gonic/gin"
)

type RouterDeps struct {
	QuestService *services.QuestService
	Hub          *ws.Hub
	DB           Pinger
	QRSize       int
}

// RegisterRoutes mounts the REST and websocket endpoints on r.
func RegisterRoutes(r gin.IRouter, deps RouterDeps) {
	questHandler := NewQuestHandler(deps.QuestService, deps.Hub)
	questionHandler := NewQuestionHandler(deps.QuestService, deps.Hub)
	transferHandler := NewTransferHandler(deps.QuestService, deps.Hub, deps.QRSize)
	wsHandler := NewWSHandler(deps.Hub, deps.QuestService)
	healthHandler := NewHealthHandler(deps.DB)

	r.GET("/healthz", healthHandler.Health)
	r.GET("/ws/quests/:id", wsHandler.HandleWebSocket)

	api := r.Group("/api/v1")
	{
		quests := api.Group("/quests")
		{
			quests.GET("", questHandler.ListQuests)
			quests.POST("", questHandler.CreateQuest)
			quests.POST("/join", questHandler.JoinQuest)
			quests.GET("/:id", questHandler.GetQuest)
			quests.DELETE("/:id", questHandler.DeleteQuest)
			quests.GET("/:id/questions", questionHandler.ListQuestions)
			quests.POST("/:id/questions", questionHandler.CreateQuestion)
			quests.GET("/:id/export", transferHandler.ExportQuest)
		}

		questions := api.Group("/questions")
		{
			questions.PUT("/:id/answer", questionHandler.RecordAnswer)
		}

		api.POST("/import", transferHandler.ImportQuest)
	}
}
