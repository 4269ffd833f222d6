package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const (
	EventQuestImported = "quest_imported"
	EventQuestionAdded = "question_added"
	EventAnswerSaved   = "answer_recorded"
	EventQuestDeleted  = "quest_deleted"
)

// writeWait bounds a single broadcast write so a stalled client cannot hold
// the hub lock.
const writeWait = 5 * time.Second

type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Conn is the subset of *websocket.Conn the hub writes to.
type Conn interface {
	SetWriteDeadline(t time.Time) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Hub fans quest change events out to every client watching that quest.
type Hub struct {
	mu     sync.RWMutex
	quests map[uint]map[Conn]bool
}

func NewHub() *Hub {
	return &Hub{
		quests: make(map[uint]map[Conn]bool),
	}
}

func (h *Hub) AddConnection(questID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.quests[questID] == nil {
		h.quests[questID] = make(map[Conn]bool)
	}
	h.quests[questID][conn] = true
	log.Debug().Uint("quest_id", questID).Int("watchers", len(h.quests[questID])).Msg("ws: client connected")
}

func (h *Hub) RemoveConnection(questID uint, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.quests[questID]; ok {
		if _, ok := conns[conn]; !ok {
			return
		}
		delete(conns, conn)
		conn.Close()
		if len(conns) == 0 {
			delete(h.quests, questID)
		}
		log.Debug().Uint("quest_id", questID).Msg("ws: client disconnected")
	}
}

// Watchers returns the number of open connections for questID.
func (h *Hub) Watchers(questID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.quests[questID])
}

func (h *Hub) Broadcast(questID uint, message WSMessage) {
	data, err := json.Marshal(message)
	if err != nil {
		log.Error().Err(err).Msg("ws: marshal error")
		return
	}

	// Write lock: failed connections are dropped from the map.
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.quests[questID]
	if !ok {
		return
	}
	for conn := range conns {
		err := conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err == nil {
			err = conn.WriteMessage(websocket.TextMessage, data)
		}
		if err != nil {
			log.Warn().Err(err).Uint("quest_id", questID).Msg("ws: write error")
			conn.Close()
			delete(conns, conn)
		}
	}
	if len(conns) == 0 {
		delete(h.quests, questID)
	}
}
