package handlers

import (
	"math"
	"net/http"

	"campusconnect/internal/db"
	"campusconnect/internal/models"

	"github.com/gin-gonic/gin"
)

type CommunityHandler struct{}

func NewCommunityHandler() *CommunityHandler {
	return &CommunityHandler{}
}

// ListCommunities returns every community.
func (h *CommunityHandler) ListCommunities(c *gin.Context) {
	var communities []models.Community
	if err := db.DB.Order("id ASC").Find(&communities).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.JSON(http.StatusOK, gin.H{"communities": communities})
}

// ListPosts returns a page of a community's posts, newest first.
func (h *CommunityHandler) ListPosts(c *gin.Context) {
	var community models.Community
	if err := db.DB.Where("slug = ?", c.Param("slug")).First(&community).Error; err != nil {
		respondError(c, http.StatusNotFound, "community not found")
		return
	}

	page, pageSize := pagination(c)

	var total int64
	db.DB.Model(&models.Post{}).Where("community_id = ?", community.ID).Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(pageSize)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	db.DB.Preload("User").
		Where("community_id = ?", community.ID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts)

	fillCommentCounts(posts)

	c.JSON(http.StatusOK, gin.H{
		"community":   community,
		"posts":       posts,
		"page":        page,
		"total_pages": totalPages,
	})
}

// fillCommentCounts sets CommentCount on each post with one grouped query.
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	counts := make(map[uint]int, len(results))
	for _, r := range results {
		counts[r.PostID] = r.Count
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
}
