package bot

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"

	"picturegame-bot/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
)

// Handler builds the read-only status dashboard router. It runs in-process
// with the poll loop and shares its snapshot and leaderboard cache.
func (b *Bot) Handler() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", b.handleStatusView)
	router.GET("/api/state", b.handleState)
	router.GET("/api/leaderboard", b.handleLeaderboard)
	router.POST("/api/leaderboard/corrections", b.requireAdmin, b.handleCorrection)
	router.GET("/ws", func(c *gin.Context) {
		b.handleWebsocket(c.Writer, c.Request)
	})
	return router
}

func (b *Bot) handleStatusView(c *gin.Context) {
	snapshot := b.LastSnapshot()
	entries, err := b.leaderboard.Entries(c.Request.Context())
	if err != nil {
		log.Printf("dashboard leaderboard load failed error=%v", err)
	}
	rows := make([]web.LeaderboardRow, len(entries))
	for i, entry := range entries {
		rows[i] = web.LeaderboardRow{
			Rank:     entry.Rank,
			Username: entry.Username,
			Rounds:   entry.Rounds,
			Total:    entry.Total,
		}
	}
	data := web.StatusData{
		Subreddit:   b.cfg.Subreddit,
		RoundNumber: snapshot.RoundNumber,
		Title:       snapshot.Title,
		State:       snapshot.State,
		Flair:       snapshot.Flair,
		CurrentOp:   snapshot.CurrentOp,
		PostedAt:    snapshot.PostedAt,
		UpdatedAt:   snapshot.UpdatedAt,
		Leaderboard: rows,
	}
	templ.Handler(web.Status(data)).ServeHTTP(c.Writer, c.Request)
}

func (b *Bot) handleState(c *gin.Context) {
	c.JSON(http.StatusOK, b.LastSnapshot())
}

func (b *Bot) handleLeaderboard(c *gin.Context) {
	entries, err := b.leaderboard.Entries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "leaderboard unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

type correctionRequest struct {
	Username string `json:"username" binding:"required"`
	Round    int    `json:"round" binding:"required,gt=0"`
}

var correctionMessages = bindMessages{
	"Username": {"required": "username is required"},
	"Round":    {"required": "round is required", "gt": "round must be positive"},
}

// handleCorrection removes an erroneous credit from the leaderboard and
// republishes the table.
func (b *Bot) handleCorrection(c *gin.Context) {
	var req correctionRequest
	if !bindJSON(c, &req, correctionMessages, "invalid correction request") {
		return
	}
	ctx := c.Request.Context()
	if err := b.leaderboard.Remove(ctx, req.Username, req.Round); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	reason := fmt.Sprintf("Discredit Round %d from %s.", req.Round, req.Username)
	if err := b.leaderboard.Publish(ctx, reason); err != nil {
		log.Printf("correction publish failed round=%d error=%v", req.Round, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "leaderboard publish failed"})
		return
	}
	b.archiveEvent(req.Round, "credit_removed", eventPayload{
		RoundNumber: req.Round,
		Username:    req.Username,
	})
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

func (b *Bot) requireAdmin(c *gin.Context) {
	token := b.cfg.AdminToken
	if token == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin API disabled"})
		return
	}
	provided := c.GetHeader("X-Admin-Token")
	if subtle.ConstantTimeCompare([]byte(provided), []byte(token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.Next()
}
