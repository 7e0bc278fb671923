package ws

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/c14220110/clinic-appointments/internal/common/middlewares"
	"github.com/c14220110/clinic-appointments/pkg/apierror"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// the web client may be served from another origin
		return true
	},
}

// ServeWS upgrades GET /ws/appointments?user_id=[&token=] and streams that
// user's booking events. A token from JWTMiddleware must belong to user_id.
func ServeWS(hub *Hub) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.QueryParam("user_id")
		if raw == "" {
			apierr := apierror.NewMissingParamError("user_id")
			return c.JSON(apierr.Code(), apierr)
		}
		userID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			apierr := apierror.NewInvalidParamTypeError("user_id", "integer")
			return c.JSON(apierr.Code(), apierr)
		}
		if apierr := middlewares.AuthorizeUser(c, userID); apierr != nil {
			return c.JSON(apierr.Code(), apierr)
		}

		conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return err
		}
		client := &Client{UserID: userID, Conn: conn, Send: make(chan []byte, 256)}
		if err := hub.Register(c.Request().Context(), client); err != nil {
			conn.Close()
			return nil
		}

		go client.writePump()
		go client.readPump(hub)
		return nil
	}
}

// readPump only watches for the peer going away; clients never send events.
func (c *Client) readPump(hub *Hub) {
	defer func() {
		hub.Unregister(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(512)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
