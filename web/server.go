// Package web serves the search form and the rendered publication report.
package web

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	log "github.com/sirupsen/logrus"

	"github.com/davidaknowles/schola/dateutil"
	"github.com/davidaknowles/schola/export"
	"github.com/davidaknowles/schola/fetch"
	"github.com/davidaknowles/schola/metrics"
	"github.com/davidaknowles/schola/pipeline"
)

// Server is the HTTP boundary around the aggregation pipeline. Each request
// runs a fresh pipeline; no state is kept between requests. Entrez is a
// template client, copied per request so the form supplied email never races
// across concurrent requests.
type Server struct {
	Entrez fetch.Client
	ICite  metrics.Client
	// DefaultEmail is used for Entrez identification when the form leaves
	// the email field empty.
	DefaultEmail string
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handleHome)
	r.Get("/results", s.handleResults)
	return r
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := homeTmpl.Execute(w, r.URL.Query()); err != nil {
		log.Warnf("web: render home: %v", err)
	}
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	author := strings.TrimSpace(q.Get("author"))
	if author == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	entrez := s.Entrez
	entrez.Email = s.DefaultEmail
	if email := strings.TrimSpace(q.Get("email")); email != "" {
		entrez.Email = email
	}
	icite := s.ICite
	startYear, err := dateutil.ParseYear(q.Get("start_year"))
	if err != nil {
		s.renderError(w, err)
		return
	}
	endYear, err := dateutil.ParseYear(q.Get("end_year"))
	if err != nil {
		s.renderError(w, err)
		return
	}
	req := pipeline.Request{
		AuthorQuery:      author,
		StartYear:        startYear,
		EndYear:          endYear,
		FilterByPosition: q.Get("filter_position") != "0",
	}
	p := &pipeline.Pipeline{Entrez: &entrez, ICite: &icite}
	result, err := p.Run(r.Context(), req)
	if err != nil {
		s.renderError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := export.RenderHTML(w, author, result.Publications); err != nil {
		log.Warnf("web: render results: %v", err)
	}
}

// renderError shows a plain error message page. Partial failures never reach
// this point, only a failed search does.
func (s *Server) renderError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusBadGateway)
	if terr := errorTmpl.Execute(w, err.Error()); terr != nil {
		log.Warnf("web: render error page: %v", terr)
	}
}

var homeTmpl = template.Must(template.New("home").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Schola</title>
  <style>
    body {font-family: -apple-system, BlinkMacSystemFont, Arial; max-width: 900px; margin:40px auto; padding:0 20px; background:#fafafa;}
    h1 {margin-top:0;}
    form {background:#fff; padding:20px; border-radius:8px; box-shadow:0 2px 4px rgba(0,0,0,.1);}
    label {display:block; font-weight:600; margin-bottom:6px;}
    input[type=text], input[type=email] {width:100%; padding:10px; border:1px solid #ccc; border-radius:4px; font-size:16px;}
    .row {margin-bottom:15px;}
    button {background:#0066cc; color:#fff; border:none; padding:12px 20px; font-size:16px; border-radius:6px; cursor:pointer;}
    button:hover {background:#004f99;}
    .footer {margin-top:40px; font-size:12px; color:#666;}
  </style>
</head>
<body>
  <h1>Schola</h1>
  <form method="GET" action="/results">
    <div class="row">
      <label for="author">Author (e.g., Knowles DA)</label>
      <input id="author" name="author" type="text" required placeholder="LastName Initials" value="{{.Get "author"}}">
    </div>
    <div class="row">
      <label for="email">Email (for Entrez)</label>
      <input id="email" name="email" type="email" placeholder="you@example.com" value="{{.Get "email"}}">
    </div>
    <div class="row">
      <label for="start_year">Start Year (optional)</label>
      <input id="start_year" name="start_year" type="text" placeholder="2018" value="{{.Get "start_year"}}">
    </div>
    <div class="row">
      <label for="end_year">End Year (optional)</label>
      <input id="end_year" name="end_year" type="text" placeholder="2025" value="{{.Get "end_year"}}">
    </div>
    <button type="submit">Fetch Publications</button>
  </form>
  <div class="footer">Data from PubMed &amp; NIH iCite. RCR may be imputed when missing.</div>
</body>
</html>
`))

var errorTmpl = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="UTF-8"><title>Schola - Error</title></head>
<body>
  <p>Error fetching publications: {{.}}</p>
  <p><a href="/">Back</a></p>
</body>
</html>
`))
