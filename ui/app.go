package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"progeval/app"
	"progeval/domain/study"
	"progeval/internal/report"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App is the HTML report viewer. Reports are rendered as markdown and
// converted to HTML for display.
type App struct {
	router    *chi.Mux
	svc       *app.EvaluationService
	dataset   *study.Dataset
	source    string
	spec      app.AnalysisSpec
	templates *template.Template
}

// NewApp creates the viewer application
func NewApp(svc *app.EvaluationService, dataset *study.Dataset, source string, spec app.AnalysisSpec) (*App, error) {
	templates, err := template.ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		svc:       svc,
		dataset:   dataset,
		source:    source,
		spec:      spec,
		templates: templates,
	}

	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/", a.handleIndex)
	a.router.Get("/live", a.handleLiveReport)
	a.router.Get("/reports/{id}", a.handleReport)

	return a, nil
}

// Run starts the viewer on the given address
func (a *App) Run(addr string) error {
	return http.ListenAndServe(addr, a.router)
}

// Handler exposes the router for tests
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	summaries, err := a.svc.ListReports(r.Context(), 50, 0)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	data := struct {
		Source  string
		Records int
		Reports interface{}
	}{
		Source:  a.source,
		Records: a.dataset.Len(),
		Reports: summaries,
	}
	if err := a.templates.ExecuteTemplate(w, "index.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (a *App) handleLiveReport(w http.ResponseWriter, r *http.Request) {
	rep, err := a.svc.Evaluate(r.Context(), a.dataset, a.source, a.spec)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	a.renderReport(w, rep)
}

func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := a.svc.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	a.renderReport(w, rep)
}

func (a *App) renderReport(w http.ResponseWriter, rep *study.EvaluationReport) {
	md := report.Render(rep)

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	body := markdown.ToHTML([]byte(md), p, renderer)

	data := struct {
		Title string
		Body  template.HTML
	}{
		Title: fmt.Sprintf("Report %s", rep.ID),
		Body:  template.HTML(body),
	}
	if err := a.templates.ExecuteTemplate(w, "report.html", data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
