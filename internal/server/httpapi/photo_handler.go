package httpapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/photoframe/internal/common"
	"github.com/dmitrijs2005/photoframe/internal/server/models"
	"github.com/gin-gonic/gin"
)

type photoResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"ownerId"`
	ObjectKey string `json:"objectKey"`
	URL       string `json:"url"`
	SecureURL string `json:"secureUrl"`
	Format    string `json:"format"`
	Bytes     int64  `json:"bytes"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Caption   string `json:"caption"`
	CreatedAt string `json:"createdAt"`
}

func toPhotoResponse(p *models.Photo) photoResponse {
	return photoResponse{
		ID:        p.ID,
		OwnerID:   p.OwnerID,
		ObjectKey: p.ObjectKey,
		URL:       p.URL,
		SecureURL: p.SecureURL,
		Format:    p.Format,
		Bytes:     p.Bytes,
		Width:     p.Width,
		Height:    p.Height,
		Caption:   p.Caption,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (s *Server) handleUpload(c *gin.Context) {
	ident, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, common.ErrUnauthenticated)
		return
	}

	file, err := c.FormFile("photo")
	if err != nil {
		respondError(c, common.ErrorValidation)
		return
	}

	src, err := file.Open()
	if err != nil {
		respondError(c, common.ErrorValidation)
		return
	}
	defer src.Close()

	payload, err := io.ReadAll(src)
	if err != nil {
		respondError(c, common.ErrorValidation)
		return
	}

	caption := c.PostForm("caption")

	photo, err := s.photos.Upload(c.Request.Context(), ident.ID, payload, caption)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"photo":   toPhotoResponse(photo),
	})
}

func (s *Server) handleList(c *gin.Context) {
	ident, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, common.ErrUnauthenticated)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	photos, total, err := s.photos.List(c.Request.Context(), ident.ID, page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]photoResponse, 0, len(photos))
	for _, p := range photos {
		out = append(out, toPhotoResponse(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"photos":  out,
		"pagination": gin.H{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

func (s *Server) handleGet(c *gin.Context) {
	ident, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, common.ErrUnauthenticated)
		return
	}

	photo, err := s.photos.Get(c.Request.Context(), ident.ID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"photo":   toPhotoResponse(photo),
	})
}

func (s *Server) handleDelete(c *gin.Context) {
	ident, ok := CurrentIdentity(c)
	if !ok {
		respondError(c, common.ErrUnauthenticated)
		return
	}

	if err := s.photos.Delete(c.Request.Context(), ident.ID, c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Photo deleted successfully",
	})
}
