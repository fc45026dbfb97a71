package lib

import (
	"fmt"
	"log"

	"github.com/zishang520/socket.io/v2/socket"
)

var socketServer *socket.Server

// GetSocketServer returns the process-wide socket.io server. Operator
// devices join a per-venue namespace and receive live admission events
// so every door sees the same headcount.
func GetSocketServer() *socket.Server {
	if socketServer != nil {
		return socketServer
	}
	wss := socket.NewServer(nil, nil)
	wss.On("connection", func(clients ...any) {
		client := clients[0].(*socket.Socket)
		log.Printf("[ws] client connected: %s %s\n", string(client.Id()), client.Nsp().Name())
	})
	socketServer = wss
	return wss
}

// EmitAdmission broadcasts a committed admission to every device
// watching the venue.
func EmitAdmission(venueID uint, payload any) {
	if socketServer == nil {
		return
	}
	ns := fmt.Sprintf("/venues/%d", venueID)
	socketServer.Of(ns, nil).Emit("admission", payload)
}
