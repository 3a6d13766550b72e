package app

import (
	"path/filepath"

	"techblog/internal/domain/post"
	"techblog/internal/domain/site"
)

// RouteBuilder plans the output layout of a build: one route per post plus
// the fixed pages. The builder and any asset manifest (e.g. an offline
// cache list) derive their paths from this plan instead of hardcoding them.
type RouteBuilder struct{}

func (rb RouteBuilder) PostRoute(p post.Post) site.Route {
	return site.Route{
		Kind:    site.RoutePost,
		Slug:    p.Slug,
		OutPath: filepath.Join("posts", p.Slug+".html"),
	}
}

func (rb RouteBuilder) FixedRoutes() []site.Route {
	return []site.Route{
		{Kind: site.RouteIndex, OutPath: "index.html"},
		{Kind: site.RouteTags, OutPath: "tags.html"},
		{Kind: site.RouteSearch, OutPath: "search.html"},
		{Kind: site.RouteAbout, OutPath: "about.html"},
		{Kind: site.RouteNotFound, OutPath: "404.html"},
		{Kind: site.RouteData, OutPath: "posts.json"},
	}
}

func (rb RouteBuilder) Plan(posts []post.Post) []site.Route {
	routes := rb.FixedRoutes()
	for _, p := range posts {
		routes = append(routes, rb.PostRoute(p))
	}
	return routes
}
