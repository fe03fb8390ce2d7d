package handlers

import (
	"html/template"
	"net/http"
	"strings"

	"campusconnect/internal/db"
	"campusconnect/internal/logger"
	"campusconnect/internal/models"
	"campusconnect/internal/moderation"
	"campusconnect/internal/services"
	"campusconnect/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	maxTitleLength   = 200
	maxContentLength = 20000
)

type PostHandler struct {
	moderation *services.ModerationService
}

func NewPostHandler(mod *services.ModerationService) *PostHandler {
	return &PostHandler{moderation: mod}
}

type createPostRequest struct {
	Community string `json:"community" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Content   string `json:"content"`
}

type createCommentRequest struct {
	Content  string `json:"content" binding:"required"`
	ParentID *uint  `json:"parent_id"`
}

// Create publishes a post after it passes the full moderation pipeline.
func (h *PostHandler) Create(c *gin.Context) {
	user := currentUser(c)
	if !checkCanPublish(c, user) {
		return
	}

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "community and title are required")
		return
	}
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		respondError(c, http.StatusBadRequest, "title must not be empty")
		return
	}
	if len(title) > maxTitleLength || len(content) > maxContentLength {
		respondError(c, http.StatusBadRequest, "post is too long")
		return
	}

	var community models.Community
	if err := db.DB.Where("slug = ?", req.Community).First(&community).Error; err != nil {
		respondError(c, http.StatusNotFound, "community not found")
		return
	}

	text := title
	if content != "" {
		text = title + "\n\n" + content
	}
	if err := h.moderation.Screen(c.Request.Context(), user.ID, text, moderation.ContentPost); err != nil {
		respondModerationError(c, err)
		return
	}

	post := models.Post{
		Pid:         utils.RandomID(8),
		UserID:      user.ID,
		CommunityID: community.ID,
		Title:       title,
		Content:     content,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		logger.Log.Error("Failed to create post", zap.Uint("user_id", user.ID), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to publish post")
		return
	}

	c.JSON(http.StatusCreated, post)
}

type commentView struct {
	models.Comment
	ContentHTML template.HTML `json:"content_html"`
	Floor       int           `json:"floor"`
}

// Detail returns a post with its comments, markdown rendered.
func (h *PostHandler) Detail(c *gin.Context) {
	var post models.Post
	if err := db.DB.Preload("User").Preload("Community").Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	var comments []models.Comment
	db.DB.Preload("User").Where("post_id = ?", post.ID).Order("created_at ASC").Find(&comments)
	post.CommentCount = len(comments)

	views := make([]commentView, len(comments))
	for i, com := range comments {
		views[i] = commentView{
			Comment:     com,
			ContentHTML: utils.RenderMarkdown(com.Content),
			Floor:       i + 1,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"content_html": utils.RenderMarkdown(post.Content),
		"comments":     views,
	})
}

// CreateComment adds a comment after it passes the full moderation pipeline.
func (h *PostHandler) CreateComment(c *gin.Context) {
	user := currentUser(c)
	if !checkCanPublish(c, user) {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "content is required")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		respondError(c, http.StatusBadRequest, "content must not be empty")
		return
	}
	if len(content) > maxContentLength {
		respondError(c, http.StatusBadRequest, "comment is too long")
		return
	}

	var post models.Post
	if err := db.DB.Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		respondError(c, http.StatusNotFound, "post not found")
		return
	}

	if req.ParentID != nil {
		var parent models.Comment
		if err := db.DB.Where("id = ? AND post_id = ?", *req.ParentID, post.ID).First(&parent).Error; err != nil {
			respondError(c, http.StatusBadRequest, "parent comment not found on this post")
			return
		}
	}

	if err := h.moderation.Screen(c.Request.Context(), user.ID, content, moderation.ContentComment); err != nil {
		respondModerationError(c, err)
		return
	}

	comment := models.Comment{
		Cid:      utils.RandomID(8),
		PostID:   post.ID,
		UserID:   user.ID,
		ParentID: req.ParentID,
		Content:  content,
	}
	if err := db.DB.Create(&comment).Error; err != nil {
		logger.Log.Error("Failed to create comment", zap.String("pid", post.Pid), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "failed to publish comment")
		return
	}

	c.JSON(http.StatusCreated, comment)
}
