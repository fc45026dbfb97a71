package middlewares

import (
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"gac/src/lib"
	"gac/src/types"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var jwtKey = []byte(os.Getenv("JWT_SECRET"))

// AuthMiddleware verifies the operator token issued by the session
// service and scopes the request to a venue. Token issuance itself is
// not our concern; the claims plus the cached session resolution are.
func AuthMiddleware(ctx *gin.Context) {
	bearerToken := ctx.Request.Header.Get("Authorization")
	if !strings.HasPrefix(bearerToken, "Bearer") {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	reqToken := strings.Split(bearerToken, " ")[1]
	if reqToken == "" {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	claims := &types.Claims{}
	tkn, err := jwt.ParseWithClaims(reqToken, claims, func(t *jwt.Token) (any, error) {
		return jwtKey, nil
	})
	if err != nil {
		log.Printf("token error: %s\n", err.Error())
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}
	if !tkn.Valid {
		ctx.AbortWithStatus(http.StatusUnauthorized)
		return
	}

	venueID := claims.Venue
	if venueID == 0 {
		if cached, ok := lib.GetVenueSession(claims.Subject); ok {
			venueID = cached
		}
	} else if exp := claims.ExpiresAt; exp != nil {
		go lib.CacheVenueSession(claims.Subject, venueID, time.Until(exp.Time))
	}
	if venueID == 0 {
		log.Printf("operator [%s] has no venue scope\n", claims.Subject)
		ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no venue scope for this session"})
		return
	}

	ctx.Set("uid", claims.Subject)
	ctx.Set("operator", claims.Username)
	ctx.Set("role", claims.Role)
	ctx.Set("venue", venueID)
}
