package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hashjamm/portfolio/internal/archive"
	"github.com/hashjamm/portfolio/internal/content"
	"github.com/hashjamm/portfolio/internal/mosaic"
)

type projectsResponse struct {
	Group    archive.Group         `json:"group"`
	Query    string                `json:"query"`
	Counts   []archive.FilterCount `json:"counts"`
	Projects []content.Project     `json:"projects"`
}

type projectResponse struct {
	Project content.Project `json:"project"`
	Next    string          `json:"next"`
	Prev    string          `json:"prev"`
}

type mosaicColumn struct {
	Index    int               `json:"index"`
	Kind     mosaic.ColumnKind `json:"kind"`
	Projects []string          `json:"projects"`
}

type mosaicResponse struct {
	mosaic.Settings
	Pattern []int          `json:"pattern"`
	Columns []mosaicColumn `json:"columns"`
}

// apiProjects lists projects filtered by ?group= and ?q=. An unknown group
// falls back to All, the same way the archive browser treats it.
func (s *Server) apiProjects(c *gin.Context) {
	group, _ := archive.ParseGroup(c.Query("group"))
	query := c.Query("q")
	all := s.store.All()

	c.JSON(http.StatusOK, projectsResponse{
		Group:    group,
		Query:    query,
		Counts:   archive.Counts(all),
		Projects: archive.Filter(all, group, query),
	})
}

func (s *Server) apiProject(c *gin.Context) {
	id := c.Param("id")
	p, err := s.store.Get(id)
	if errors.Is(err, content.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "project not found", "id": id})
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	next, _ := s.store.Next(id)
	prev, _ := s.store.Prev(id)
	c.JSON(http.StatusOK, projectResponse{Project: p, Next: next.ID, Prev: prev.ID})
}

func (s *Server) apiMosaic(c *gin.Context) {
	resp := mosaicResponse{
		Settings: mosaic.DefaultSettings(),
		Pattern:  mosaic.DefaultPattern,
		Columns:  []mosaicColumn{},
	}
	for _, col := range mosaic.Group(s.store.Archived(), mosaic.DefaultPattern) {
		ids := make([]string, len(col.Projects))
		for i, p := range col.Projects {
			ids[i] = p.ID
		}
		resp.Columns = append(resp.Columns, mosaicColumn{Index: col.Index, Kind: col.Kind, Projects: ids})
	}
	c.JSON(http.StatusOK, resp)
}
