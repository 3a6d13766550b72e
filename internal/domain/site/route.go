package site

import (
	"fmt"
	"strings"
)

type RouteKind string

const (
	RouteIndex    RouteKind = "index"
	RoutePost     RouteKind = "post"
	RouteTags     RouteKind = "tags"
	RouteTag      RouteKind = "tag"
	RouteSearch   RouteKind = "search"
	RouteAbout    RouteKind = "about"
	RouteData     RouteKind = "data"
	RouteNotFound RouteKind = "404"
)

// Route is one addressable output of a build: a page kind, the slug or tag
// it is keyed on (when any), and where it lands under the public dir.
type Route struct {
	Kind    RouteKind
	Slug    string
	OutPath string
}

func (r Route) String() string {
	var parts []string
	parts = append(parts, string(r.Kind))
	if r.Slug != "" {
		parts = append(parts, "slug="+r.Slug)
	}
	if r.OutPath != "" {
		parts = append(parts, "out="+r.OutPath)
	}
	return strings.Join(parts, " ")
}

func (r Route) URL() string {
	switch r.Kind {
	case RouteIndex:
		return "/"
	case RoutePost:
		return fmt.Sprintf("/posts/%s.html", r.Slug)
	case RouteTag:
		return fmt.Sprintf("/tag/%s", r.Slug)
	default:
		return "/" + r.OutPath
	}
}
