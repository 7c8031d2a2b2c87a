package handlers

import (
	"time"

	stream "github.com/GetStream/stream-chat-go/v6"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"telehealth-server/internal/middleware"
	"telehealth-server/internal/models"
	"telehealth-server/internal/utils"
)

// Chat and video transport is delegated entirely to Stream; this handler
// only provisions the user and hands out a session token.
type StreamHandler struct {
	DB     *gorm.DB
	Client *stream.Client
}

// NewStreamHandler creates a new StreamHandler.
func NewStreamHandler(db *gorm.DB, client *stream.Client) *StreamHandler {
	return &StreamHandler{DB: db, Client: client}
}

// StreamTokenResponse is the payload the frontend feeds into the Stream SDK.
type StreamTokenResponse struct {
	Token string `json:"token"`
	User  struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"user"`
}

const generalChannelID = "general"

// GetToken issues a Stream session token for the authenticated user, after
// upserting the user vendor-side and ensuring membership of the general
// channel.
func (h *StreamHandler) GetToken(c *gin.Context) {
	if h.Client == nil {
		utils.InternalServerError(c, "Chat service is not configured")
		return
	}
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var user models.User
	if err := h.DB.First(&user, "id = ?", userID).Error; err != nil {
		utils.InternalServerError(c, "Failed to load user: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	_, err := h.Client.UpsertUser(ctx, &stream.User{ID: user.ID, Name: user.Username})
	if err != nil {
		utils.InternalServerError(c, "Failed to provision chat user: "+err.Error())
		return
	}

	channel, err := h.Client.CreateChannel(ctx, "messaging", generalChannelID, user.ID, nil)
	if err != nil {
		utils.InternalServerError(c, "Failed to open chat channel: "+err.Error())
		return
	}
	if _, err := channel.Channel.AddMembers(ctx, []string{user.ID}, nil); err != nil {
		utils.InternalServerError(c, "Failed to join chat channel: "+err.Error())
		return
	}

	token, err := h.Client.CreateToken(user.ID, time.Time{})
	if err != nil {
		utils.InternalServerError(c, "Failed to generate chat token: "+err.Error())
		return
	}

	resp := StreamTokenResponse{Token: token}
	resp.User.ID = user.ID
	resp.User.Name = user.Username
	utils.Success(c, "Chat token issued successfully", resp)
}
