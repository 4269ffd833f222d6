package handlers

import (
	"net/http"

	"orienteering-backend/internal/services"
	"orienteering-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

type WSHandler struct {
	hub          *ws.Hub
	questService *services.QuestService
}

func NewWSHandler(hub *ws.Hub, questService *services.QuestService) *WSHandler {
	return &WSHandler{hub: hub, questService: questService}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      WebSocket feed of quest changes
// @Description  Receive quest_imported, question_added, answer_recorded and quest_deleted events for one quest
// @Tags         websocket
// @Param        id path int true "Quest ID"
// @Router       /ws/quests/{id} [get]
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	questID, ok := parseID(c, "quest")
	if !ok {
		return
	}
	if _, err := h.questService.GetQuest(c.Request.Context(), questID); err != nil {
		respondError(c, err, "quest not found")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	h.hub.AddConnection(questID, conn)
	defer h.hub.RemoveConnection(questID, conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
