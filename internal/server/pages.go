package server

import (
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hashjamm/portfolio/internal/archive"
	"github.com/hashjamm/portfolio/internal/content"
	"github.com/hashjamm/portfolio/internal/diagram"
	"github.com/hashjamm/portfolio/internal/mosaic"
	"github.com/hashjamm/portfolio/internal/uistate"
)

func location(c *gin.Context) uistate.Location {
	return uistate.Location{Path: c.Request.URL.Path, Query: c.Request.URL.Query()}
}

func validGroup(g string) bool {
	_, ok := archive.ParseGroup(g)
	return ok
}

func (s *Server) home(c *gin.Context) {
	loc := location(c)
	state := uistate.Resolve(loc.State(), uistate.Bounds{Archive: true, ValidGroup: validGroup})
	loc = loc.With(state)

	all := s.store.All()
	view := homeView{
		pageView: newPageView(s.profile.Name, loc, state),
		Profile:  s.profile,
		Featured: s.cards(s.store.Featured()),
		Stats:    s.store.CategoryStats(),
		Total:    len(all),
	}

	cols := mosaic.Group(s.store.Archived(), mosaic.DefaultPattern)
	for _, col := range cols {
		view.Columns = append(view.Columns, columnView{
			Index: col.Index,
			Kind:  col.Kind,
			Cards: s.cards(col.Projects),
		})
	}
	view.Mosaic = mosaic.DefaultSettings()
	view.Counter = mosaic.NewCounter(len(cols)).Label()

	for _, fc := range archive.Counts(all) {
		group := string(fc.Group)
		if fc.Group == archive.All {
			group = ""
		}
		view.Launch = append(view.Launch, launchView{
			Label: string(fc.Group),
			Count: fc.Count,
			Open:  loc.OpenArchive(group),
		})
	}

	if state.Archive {
		view.Archive = s.archiveView(loc, state, all, c.Query("q"))
	}

	c.HTML(http.StatusOK, "home.html", view)
}

func (s *Server) archiveView(loc uistate.Location, state uistate.State, all []content.Project, query string) *archiveView {
	group, _ := archive.ParseGroup(state.Group)
	av := &archiveView{
		Group:    string(group),
		Query:    strings.TrimSpace(query),
		Projects: s.cards(archive.Filter(all, group, query)),
		Close:    loc.Close(),
	}
	for _, fc := range archive.Counts(all) {
		av.Filters = append(av.Filters, filterView{
			Label:  string(fc.Group),
			Count:  fc.Count,
			Active: fc.Group == group,
			Select: loc.SelectGroup(string(fc.Group), string(archive.All)),
		})
	}
	return av
}

func (s *Server) project(c *gin.Context) {
	id := c.Param("id")
	p, err := s.store.Get(id)
	if errors.Is(err, content.ErrNotFound) {
		s.notFound(c)
		return
	}
	if err != nil {
		_ = c.Error(err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}

	gallery := s.assets.Gallery(p.Gallery)
	loc := location(c)
	state := uistate.Resolve(loc.State(), uistate.Bounds{
		Images:     len(gallery),
		HasDiagram: p.HasDiagram(),
	})
	loc = loc.With(state)

	view := projectView{
		pageView: newPageView(p.Title, loc, state),
		Project:  p,
		Labels:   labelsFor(p),
		Hero:     s.assets.Resolve(p.Image),
		Features: p.Detail.Features,
	}
	view.Sections = s.sections(p, view.Labels)
	view.Review = s.render(p.Detail.Review)

	view.Diagram = diagramView{
		View:        diagram.Render(p.Detail.Architecture.Diagram),
		Description: s.render(p.Detail.Architecture.Description),
		Viewer: overlayView{
			Open:  state.Diagram,
			Show:  loc.OpenDiagram(),
			Close: loc.Close(),
		},
	}
	if view.Diagram.Err != "" {
		s.log.Warn("invalid diagram", zap.String("project", p.ID), zap.String("error", view.Diagram.Err))
		view.Diagram.Viewer.Open = false
		view.BodyLocked = state.Menu || state.LightboxOpen()
	}

	for _, dd := range p.Detail.DeepDives {
		code, err := s.md.Code(dd.CodeSnippet)
		if err != nil {
			s.log.Warn("rendering code excerpt", zap.String("project", p.ID), zap.Error(err))
		}
		view.DeepDives = append(view.DeepDives, deepDiveView{
			Title: dd.Title,
			Body:  s.render(dd.Content),
			Code:  code,
		})
	}

	for i, src := range gallery {
		view.Gallery = append(view.Gallery, galleryItem{
			Src:  src,
			Alt:  p.Title + " screenshot " + strconv.Itoa(i+1),
			Open: loc.OpenImage(i),
		})
	}
	if state.LightboxOpen() {
		view.Lightbox = &lightboxView{
			Src:   gallery[state.Image],
			Alt:   view.Gallery[state.Image].Alt,
			Index: state.Image,
			Total: len(gallery),
			Next:  loc.NextImage(len(gallery)),
			Prev:  loc.PrevImage(len(gallery)),
			Close: loc.Close(),
		}
	}

	next, _ := s.store.Next(p.ID)
	prev, _ := s.store.Prev(p.ID)
	view.Next = s.card(next)
	view.Prev = s.card(prev)

	c.HTML(http.StatusOK, "project.html", view)
}

// sections returns the narrative sections that have content, in reading
// order. Blank fields are omitted.
func (s *Server) sections(p content.Project, labels sectionLabels) []sectionView {
	d := p.Detail
	candidates := []sectionView{
		{Title: "Background", Body: s.render(d.Background)},
		{Title: "The Problem", Body: s.render(d.Problem)},
		{Title: labels.Solution, Body: s.render(d.Solution)},
		{Title: "Impact", Body: s.render(d.Impact)},
		{Title: labels.Challenges, Body: s.render(d.Challenges)},
	}
	out := candidates[:0]
	for _, sec := range candidates {
		if sec.Body != "" {
			out = append(out, sec)
		}
	}
	return out
}

func (s *Server) privacy(c *gin.Context) {
	loc := location(c)
	state := uistate.Resolve(loc.State(), uistate.Bounds{})
	c.HTML(http.StatusOK, "privacy.html", gin.H{
		"Page":      newPageView("Privacy", loc.With(state), state),
		"Analytics": s.analytics != nil,
		"Retention": s.cfg.RetentionDays,
	})
}

func (s *Server) notFound(c *gin.Context) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	loc := uistate.Location{Path: c.Request.URL.Path}
	c.HTML(http.StatusNotFound, "notfound.html", newPageView("Not Found", loc, uistate.Closed()))
}

// render converts narrative markdown. A rendering failure degrades to an
// omitted section.
func (s *Server) render(text string) template.HTML {
	out, err := s.md.Render(text)
	if err != nil {
		s.log.Warn("rendering narrative", zap.Error(err))
		return ""
	}
	return out
}
