package main

import (
	"log"
	"net/http"

	"gac/src/common"
	"gac/src/types"

	"github.com/gin-gonic/gin"
)

func checkinHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/checkins", func(ctx *gin.Context) {
			var body types.ManualCheckInRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				log.Printf("Error validating request: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			outcome := c.HandleManualCheckIn(ctx.Request.Context(), body.GuestID)
			data := gin.H{
				"status":        outcome.Status,
				"checked_in_at": outcome.ConfirmedAt,
			}
			switch outcome.Status {
			case types.OUTCOME_COMMITTED, types.OUTCOME_ALREADY_CHECKED_IN:
				ctx.JSON(http.StatusOK, gin.H{"data": data})
			default:
				if outcome.Failure == types.FAILURE_NETWORK_UNAVAILABLE {
					ctx.JSON(http.StatusBadGateway, gin.H{"error": outcome.Reason, "data": data})
					return
				}
				ctx.JSON(http.StatusBadRequest, gin.H{"error": outcome.Reason, "data": data})
			}
		})
	return g
}
