package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/dineqr/table-order/middlewares"
	"github.com/dineqr/table-order/models"
	"github.com/dineqr/table-order/realtime"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// CustomerFeedHandler -> websocket feed for diners. The client receives
// its filtered snapshot immediately and again after every order change,
// until the connection drops and the subscription is torn down.
func CustomerFeedHandler(c *gin.Context) {
	viewer := middlewares.ViewerFromContext(c)

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws, viewer)

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
}

// StaffFeedHandler -> websocket feed for staff; requires an
// authenticated role and streams the partitioned view.
func StaffFeedHandler(c *gin.Context) {
	if _, exists := c.Get("role"); !exists {
		c.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	realtime.RegisterClient(ws, models.ViewerIdentity{IsStaff: true})

	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			break
		}
	}

	realtime.UnregisterClient(ws)
}
