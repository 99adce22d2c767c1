package server

import (
	"html/template"
	"net/url"

	"github.com/hashjamm/portfolio/internal/content"
	"github.com/hashjamm/portfolio/internal/diagram"
	"github.com/hashjamm/portfolio/internal/mosaic"
	"github.com/hashjamm/portfolio/internal/uistate"
)

// pageView is shared by every full page.
type pageView struct {
	Title      string
	Path       string
	BodyLocked bool
	Menu       overlayView
}

// overlayView carries the links that open and close one overlay.
type overlayView struct {
	Open  bool
	Show  uistate.Transition
	Close uistate.Transition
}

type cardView struct {
	ID       string
	Title    string
	Category string
	OneLiner string
	Image    string
	Tags     []string
	URL      string
}

type launchView struct {
	Label string
	Count int
	Open  uistate.Transition
}

type filterView struct {
	Label  string
	Count  int
	Active bool
	Select uistate.Transition
}

type archiveView struct {
	Group    string
	Query    string
	Filters  []filterView
	Projects []cardView
	Close    uistate.Transition
}

type columnView struct {
	Index int
	Kind  mosaic.ColumnKind
	Cards []cardView
}

type homeView struct {
	pageView
	Profile  content.Profile
	Featured []cardView
	Columns  []columnView
	Mosaic   mosaic.Settings
	Counter  string
	Stats    []content.CategoryStat
	Total    int
	Launch   []launchView
	Archive  *archiveView
}

type sectionView struct {
	Title string
	Body  template.HTML
}

type deepDiveView struct {
	Title string
	Body  template.HTML
	Code  template.HTML
}

type galleryItem struct {
	Src  string
	Alt  string
	Open uistate.Transition
}

type lightboxView struct {
	Src   string
	Alt   string
	Index int
	Total int
	Next  uistate.Transition
	Prev  uistate.Transition
	Close uistate.Transition
}

type diagramView struct {
	diagram.View
	Description template.HTML
	Viewer      overlayView
}

type projectView struct {
	pageView
	Project   content.Project
	Labels    sectionLabels
	Hero      string
	Sections  []sectionView
	Features  []string
	Diagram   diagramView
	DeepDives []deepDiveView
	Review    template.HTML
	Gallery   []galleryItem
	Lightbox  *lightboxView
	Next      cardView
	Prev      cardView
}

// sectionLabels names detail page sections; research projects read as
// studies rather than builds.
type sectionLabels struct {
	Solution     string
	Architecture string
	ArchDesc     string
	Logic        string
	Features     string
	Challenges   string
}

func labelsFor(p content.Project) sectionLabels {
	if p.IsResearch() {
		return sectionLabels{
			Solution:     "Hypothesis & Approach",
			Architecture: "Methodology & Analysis",
			ArchDesc:     "A detailed breakdown of the research design and statistical models.",
			Logic:        "Analysis Logic",
			Features:     "Key Findings",
			Challenges:   "Research Challenges",
		}
	}
	return sectionLabels{
		Solution:     "The Solution",
		Architecture: "System Architecture",
		ArchDesc:     "A high-level overview of the data flow and system components.",
		Logic:        "Architecture Logic",
		Features:     "Key Features",
		Challenges:   "Technical Challenges",
	}
}

func (s *Server) card(p content.Project) cardView {
	return cardView{
		ID:       p.ID,
		Title:    p.Title,
		Category: p.Category,
		OneLiner: p.OneLiner,
		Image:    s.assets.Resolve(p.Image),
		Tags:     p.Tags,
		URL:      "/projects/" + url.PathEscape(p.ID),
	}
}

func (s *Server) cards(projects []content.Project) []cardView {
	out := make([]cardView, len(projects))
	for i, p := range projects {
		out[i] = s.card(p)
	}
	return out
}

func newPageView(title string, loc uistate.Location, state uistate.State) pageView {
	return pageView{
		Title:      title,
		Path:       loc.Path,
		BodyLocked: state.ScrollLocked(),
		Menu: overlayView{
			Open:  state.Menu,
			Show:  loc.OpenMenu(),
			Close: loc.Close(),
		},
	}
}
