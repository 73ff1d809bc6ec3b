package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	broadcast "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Broadcast"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// wireMessage is the JSON envelope sent to connected viewers.
type wireMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// StreamController upgrades dashboard connections to WebSocket and relays
// hub events to them.
type StreamController struct {
	hub      *broadcast.Hub
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamController creates a new stream controller
func NewStreamController(hub *broadcast.Hub, log *logger.Logger) *StreamController {
	return &StreamController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The dashboard is served from arbitrary origins on the LAN
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: log,
	}
}

// RegisterRoutes registers the stream routes with Gin
func (c *StreamController) RegisterRoutes(router *gin.Engine) {
	router.GET("/ws", c.Serve)
}

// Serve upgrades the request and relays events until either side closes.
func (c *StreamController) Serve(ctx *gin.Context) {
	conn, err := c.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		c.logger.ErrorWithError(err, "WebSocket upgrade failed")
		return
	}

	viewer := c.hub.Subscribe()
	c.logger.Logger.Info().Str("viewer_id", viewer.ID).Msg("Viewer connected")

	go c.readPump(conn, viewer)
	c.writePump(conn, viewer)
}

// readPump discards inbound frames and detects client disconnects.
func (c *StreamController) readPump(conn *websocket.Conn, viewer *broadcast.Viewer) {
	defer c.hub.Unsubscribe(viewer)

	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump forwards hub events and keeps the connection alive with pings.
func (c *StreamController) writePump(conn *websocket.Conn, viewer *broadcast.Viewer) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.hub.Unsubscribe(viewer)
		_ = conn.Close()
		c.logger.Logger.Info().
			Str("viewer_id", viewer.ID).
			Uint64("dropped", viewer.Drops()).
			Msg("Viewer disconnected")
	}()

	for {
		select {
		case event, ok := <-viewer.Events():
			if !ok {
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			msg := wireMessage{Type: event.WireLabel()}
			switch event.Kind {
			case hmtmodels.EventKindAdvisories:
				msg.Payload = event.Advisories
			default:
				msg.Payload = event.Reading
			}

			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
