package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hashjamm/portfolio/internal/analytics"
)

var untrackedPrefixes = []string{"/static/", "/images/", "/admin", "/api/", "/healthz", "/favicon", "/privacy"}

// trackViews records successful page loads. Static assets, the API, the
// admin area and visitors sending Do Not Track are skipped.
func (s *Server) trackViews() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet || c.GetHeader("DNT") == "1" || untracked(path) {
			c.Next()
			return
		}

		c.Next()

		if c.Writer.Status() != http.StatusOK {
			return
		}
		v := analytics.View{
			HashedIP:  s.analytics.HashIP(c.ClientIP()),
			UserAgent: c.Request.UserAgent(),
			Path:      path,
		}
		if c.FullPath() == "/projects/:id" {
			v.ProjectID = c.Param("id")
		}
		s.tracker.Enqueue(v)
	}
}

func untracked(path string) bool {
	for _, p := range untrackedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}
