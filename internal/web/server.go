package web

import "net/http"

// Server serves the static shell assets. It is the upstream the cache
// mediator fronts; the mediator owns caching policy, so responses here
// carry no cache headers of their own.
type Server struct {
	Dir string
}

func (s *Server) Handler() http.Handler {
	return http.FileServer(http.Dir(s.Dir))
}
