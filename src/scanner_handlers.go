package main

import (
	"errors"
	"log"
	"net/http"

	"gac/src/admission"
	"gac/src/common"
	"gac/src/types"

	"github.com/gin-gonic/gin"
)

func scannerHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/scanner/sessions", func(ctx *gin.Context) {
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			s := c.OpenScanSession()
			ctx.JSON(http.StatusCreated, gin.H{"data": s.View()})
		}).
		GET("/scanner/sessions/:id", func(ctx *gin.Context) {
			s, ok := bindScanSession(ctx)
			if !ok {
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": gin.H{
				"session":      s.View(),
				"notification": s.CurrentToast(),
			}})
		}).
		DELETE("/scanner/sessions/:id", func(ctx *gin.Context) {
			var params types.SessionRequestParams
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
			if !c.CloseScanSession(params.SessionID) {
				ctx.Status(http.StatusNotFound)
				return
			}
			ctx.Status(http.StatusOK)
		}).
		POST("/scanner/sessions/:id/scan", func(ctx *gin.Context) {
			var params types.SessionRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var body types.ScanRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			venueID := ctx.GetUint("venue")
			c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
			if err != nil {
				ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
				return
			}
			result, err := c.HandleScan(ctx.Request.Context(), params.SessionID, body.Payload)
			if err != nil {
				if errors.Is(err, admission.ErrNoSuchSession) {
					ctx.Status(http.StatusNotFound)
					return
				}
				log.Printf("Error handling scan: %s\n", err.Error())
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			s, _ := c.Session(params.SessionID)
			if !result.Accepted {
				// Dropped by the debouncer: same code still under the
				// camera, or operator mid-cooldown.
				ctx.JSON(http.StatusConflict, gin.H{"error": "scanner busy", "data": gin.H{
					"session": s.View(),
				}})
				return
			}
			if result.Blocked {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": result.Reason, "data": gin.H{
					"session":      s.View(),
					"notification": s.CurrentToast(),
				}})
				return
			}
			data := gin.H{
				"session":      s.View(),
				"notification": s.CurrentToast(),
			}
			if result.Resolved != nil {
				data["guest"] = result.Resolved
			}
			if result.Outcome != nil {
				data["status"] = result.Outcome.Status
				data["checked_in_at"] = result.Outcome.ConfirmedAt
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data})
		}).
		POST("/scanner/sessions/:id/dismiss", func(ctx *gin.Context) {
			var params types.SessionRequestParams
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
			dismissed, err := c.DismissScanError(params.SessionID)
			if err != nil {
				ctx.Status(http.StatusNotFound)
				return
			}
			if !dismissed {
				ctx.JSON(http.StatusConflict, gin.H{"error": "nothing to dismiss"})
				return
			}
			s, _ := c.Session(params.SessionID)
			ctx.JSON(http.StatusOK, gin.H{"data": s.View()})
		})
	return g
}

func bindScanSession(ctx *gin.Context) (*admission.ScanSession, bool) {
	var params types.SessionRequestParams
	if err := ctx.ShouldBindUri(&params); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	venueID := ctx.GetUint("venue")
	c, err := common.GetHub().Controller(ctx.Request.Context(), venueID)
	if err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return nil, false
	}
	s, ok := c.Session(params.SessionID)
	if !ok {
		ctx.Status(http.StatusNotFound)
		return nil, false
	}
	return s, true
}
