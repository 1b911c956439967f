package ws

import (
	"net/http"
	"strconv"
	"time"

	"carelink/config"
	"carelink/internal/auth"
	"carelink/internal/domain"
	"carelink/internal/models"
	"carelink/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// UpgradeNotifyWS upgrades the per-user notification socket. The server
// pushes chat messages, application alerts, assignment decisions, wallet
// movements and KYC outcomes over it; the client only reads.
func UpgradeNotifyWS(cfg *config.JWTConfig, hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		client := &Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		hub.Register(client)
		defer client.Close()

		go writePump(client, conn)
		readPump(conn)
	}
}

// UpgradeChatWS joins a job chat room for live delivery. Only the job's
// customer, its applicants/assignee, and admins may join.
func UpgradeChatWS(cfg *config.JWTConfig, chatHub *ChatHub, jobs *repository.JobRepository, apps *repository.ApplicationRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
			return
		}
		claims, err := auth.ParseAccessToken(cfg, token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		jobID64, err := strconv.ParseUint(c.Param("jobID"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
			return
		}
		jobID := uint(jobID64)
		job, err := jobs.GetByID(jobID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		if !mayJoinRoom(claims, job, apps) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this thread"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		var staffID uint
		if job.AssignedStaffID != nil {
			staffID = *job.AssignedStaffID
		}
		room := chatHub.GetOrCreateRoom(jobID, job.CustomerID, staffID)
		client := &Client{
			UserID: claims.UserID,
			Role:   claims.Role,
			Send:   make(chan []byte, 256),
		}
		room.Join(client)
		defer func() {
			room.Leave(client)
			client.Close()
			if room.ClientCount() == 0 {
				chatHub.RemoveRoom(jobID)
			}
		}()

		go writePump(client, conn)
		readPump(conn)
	}
}

func mayJoinRoom(claims *auth.Claims, job *models.Job, apps *repository.ApplicationRepository) bool {
	switch claims.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleCustomer:
		return job.CustomerID == claims.UserID
	case domain.RoleStaff:
		if job.AssignedStaffID != nil && *job.AssignedStaffID == claims.UserID {
			return true
		}
		_, err := apps.GetByJobAndStaff(job.ID, claims.UserID)
		return err == nil
	}
	return false
}

// writePump copies messages from client.Send to the connection.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		_, _, err := conn.ReadMessage()
		if err != nil {
			break
		}
	}
}
