package httpapi

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.photos.AdminStats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"totalUploads": stats.TotalUploads}

	if stats.MostActive != nil {
		body["mostActiveUploader"] = gin.H{
			"userId":      stats.MostActive.UserID,
			"name":        stats.MostActive.Name,
			"email":       stats.MostActive.Email,
			"uploadCount": stats.MostActive.UploadCount,
		}
	}

	if stats.Largest != nil {
		body["largestPhoto"] = gin.H{
			"photoId":    stats.Largest.ID,
			"sizeInKB":   (stats.Largest.Bytes + 512) / 1024,
			"dimensions": fmt.Sprintf("%dx%d", stats.Largest.Width, stats.Largest.Height),
			"uploadedBy": stats.Largest.OwnerID,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats":   body,
	})
}
