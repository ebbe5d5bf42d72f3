package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"sleeper-trade-lab/internal/domain"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TimelineMessage is one streamed transaction with the edges it produced.
type TimelineMessage struct {
	Sequence    int                        `json:"sequence"`
	Transaction *domain.TransactionSummary `json:"transaction"`
	Edges       []domain.TradeEdge         `json:"edges"`
}

// handleTimelineStream builds the league's graph, then sends its timeline one
// transaction per message and closes normally. Build failures are reported as
// plain HTTP errors before the upgrade.
func (s *Server) handleTimelineStream(w http.ResponseWriter, r *http.Request) {
	g, err := s.svc.Graph(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already replied.
		s.logger.Printf("Websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	for i, tx := range g.TimelineSummaries() {
		msg := TimelineMessage{
			Sequence:    i + 1,
			Transaction: tx,
			Edges:       g.EdgesForTransaction(tx.TransactionID),
		}
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Printf("Timeline stream for %s stopped: %v", g.LeagueID, err)
			return
		}
	}

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "timeline complete"))
}
