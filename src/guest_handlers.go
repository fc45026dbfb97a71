package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"gac/src/backend"
	"gac/src/common"
	"gac/src/lib"
	"gac/src/types"

	"github.com/gin-gonic/gin"
)

func guestHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/guests", func(ctx *gin.Context) {
			var body types.AddGuestRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			venueID := ctx.GetUint("venue")
			hub := common.GetHub()
			c, err := hub.Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			entry, err := hub.Client().AddGuest(ctx.Request.Context(), venueID, body.BookingID, body.Name, body.PlusOnes)
			if err != nil {
				log.Printf("Error adding guest to venue [%d]: %s\n", venueID, err.Error())
				ctx.JSON(guestErrorStatus(err), gin.H{"error": err.Error()})
				return
			}
			c.Roster().Add(*entry)
			ctx.JSON(http.StatusCreated, gin.H{"data": entry})
		}).
		DELETE("/guests/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.RemoveGuestRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "removal must be confirmed"})
				return
			}
			venueID := ctx.GetUint("venue")
			hub := common.GetHub()
			c, err := hub.Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			entry, ok := c.Roster().Get(params.ID)
			if !ok {
				ctx.Status(http.StatusNotFound)
				return
			}
			if entry.CheckedIn {
				ctx.JSON(http.StatusConflict, gin.H{"error": "cannot remove a checked-in guest"})
				return
			}
			if err := hub.Client().RemoveGuest(ctx.Request.Context(), params.ID); err != nil {
				log.Printf("Error removing guest [%d]: %s\n", params.ID, err.Error())
				ctx.JSON(guestErrorStatus(err), gin.H{"error": err.Error()})
				return
			}
			c.Roster().Remove(params.ID)
			ctx.Status(http.StatusOK)
		}).
		GET("/guests/:id/pass", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			entry, ok := c.Roster().Get(params.ID)
			if !ok {
				ctx.Status(http.StatusNotFound)
				return
			}
			if entry.ConfirmationCode == "" {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "guest has no confirmation code"})
				return
			}
			filepath, err := lib.GenerateGuestPass(entry.GuestName, entry.ID, entry.ConfirmationCode)
			if err != nil {
				log.Printf("Error generating pass for guest [%d]: %s\n", entry.ID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filename := fmt.Sprintf("pass-%d.jpeg", entry.ID)
			ctx.FileAttachment(filepath, filename)
		})
	return g
}

func guestErrorStatus(err error) int {
	switch {
	case errors.Is(err, backend.ErrUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, backend.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}
