package main

import (
	"log"
	"net/http"

	"gac/src/common"
	"gac/src/types"

	"github.com/gin-gonic/gin"
)

func rosterHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/roster", func(ctx *gin.Context) {
			var filters types.RosterQueryFilters
			if err := ctx.ShouldBindQuery(&filters); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				log.Printf("Error loading roster for venue [%d]: %s\n", venueID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			guests := c.Roster().Search(filters.Q)
			ctx.JSON(http.StatusOK, gin.H{"data": guests})
		}).
		GET("/roster/summary", func(ctx *gin.Context) {
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			checkedIn, total := c.Roster().HeadcountSummary()
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"checked_in": checkedIn,
				"total":      total,
				"guests":     c.Roster().Len(),
			}})
		}).
		POST("/roster/refresh", func(ctx *gin.Context) {
			venueID := ctx.GetUint("venue")
			hub := common.GetHub()
			c, err := hub.Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			r := c.Roster()
			entries, err := hub.Client().FetchRoster(ctx.Request.Context(), r.VenueID(), r.Date())
			if err != nil {
				log.Printf("Error refreshing roster for venue [%d]: %s\n", venueID, err.Error())
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			r.Load(entries)
			checkedIn, total := r.HeadcountSummary()
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"checked_in": checkedIn,
				"total":      total,
				"guests":     r.Len(),
			}})
		}).
		GET("/notifications", func(ctx *gin.Context) {
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			toast := c.ListToasts().Current()
			if toast == nil {
				ctx.JSON(http.StatusOK, gin.H{"data": nil})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": toast})
		})
	return g
}
