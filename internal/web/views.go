package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/joelkehle/ethiguide/internal/analysis"
	"github.com/joelkehle/ethiguide/internal/dilemma"
	"github.com/joelkehle/ethiguide/internal/session"
	"github.com/joelkehle/ethiguide/internal/wizard"
)

//go:embed templates/*.html
var templateFiles embed.FS

// formValues holds the input form as typed, so a rejected submit can be
// shown again unchanged.
type formValues struct {
	Title        string
	Description  string
	Context      string
	Category     string
	Urgency      string
	Stakeholders string
	Values       string
	Constraints  string
}

func formFromRequest(r *http.Request) formValues {
	return formValues{
		Title:        r.FormValue("title"),
		Description:  r.FormValue("description"),
		Context:      r.FormValue("context"),
		Category:     r.FormValue("category"),
		Urgency:      r.FormValue("urgency"),
		Stakeholders: r.FormValue("stakeholders"),
		Values:       r.FormValue("values"),
		Constraints:  r.FormValue("constraints"),
	}
}

func formFromDilemma(d dilemma.Dilemma) formValues {
	return formValues{
		Title:        d.Title,
		Description:  d.Description,
		Context:      d.Context,
		Category:     string(d.Category),
		Urgency:      string(d.Urgency),
		Stakeholders: strings.Join(d.Stakeholders, "\n"),
		Values:       strings.Join(d.Values, "\n"),
		Constraints:  strings.Join(d.Constraints, "\n"),
	}
}

func (f formValues) dilemma() dilemma.Dilemma {
	return dilemma.Normalize(dilemma.Dilemma{
		Title:        f.Title,
		Description:  f.Description,
		Context:      f.Context,
		Category:     dilemma.Category(f.Category),
		Urgency:      dilemma.Urgency(f.Urgency),
		Stakeholders: dilemma.SplitLines(f.Stakeholders),
		Values:       dilemma.SplitLines(f.Values),
		Constraints:  dilemma.SplitLines(f.Constraints),
	})
}

type pageView struct {
	Steps   []wizard.StepView
	Current wizard.Step
	Heading string
	Error   string
	// Form is set when the input step is shown.
	Form        *formValues
	Categories  []dilemma.Category
	Urgencies   []dilemma.UrgencyLevel
	Markdown    string
	CaseStudies string
	ShowExports bool
	Prev, Next  int
	HasPrev     bool
	HasNext     bool
}

// buildPage derives everything the page shows from the session. Analysis
// views run only once a record exists.
func buildPage(sess *session.Session) pageView {
	st := sess.State
	cur := st.Current()
	v := pageView{
		Steps:   st.Indicator(),
		Current: cur,
		Heading: cur.Title(),
	}
	if cur > wizard.StepInput && st.IsAccessible(cur-1) {
		v.HasPrev, v.Prev = true, int(cur-1)
	}
	if cur+1 < wizard.NumSteps && st.IsAccessible(cur+1) {
		v.HasNext, v.Next = true, int(cur+1)
	}
	if st.ShowCaseStudies() {
		v.CaseStudies = analysis.CaseStudiesMarkdown(analysis.CaseStudies())
	}

	rec, ok := st.Record()
	if cur == wizard.StepInput || !ok {
		form := formValues{Urgency: string(dilemma.DefaultUrgency)}
		if ok {
			form = formFromDilemma(rec)
		}
		v.showInput(form, "")
		return v
	}
	switch cur {
	case wizard.StepEthicalAnalysis:
		v.Markdown = analysis.EthicalAnalysis(rec).Markdown()
	case wizard.StepStakeholderAnalysis:
		v.Markdown = analysis.StakeholderAnalysis(rec, analysis.NewFlavor(sess.Seed)).Markdown()
	case wizard.StepOutcomePredictor:
		v.Markdown = analysis.OutcomePrediction(rec).Markdown()
	case wizard.StepRecommendation:
		v.Markdown = analysis.Recommend(rec).Markdown()
		v.ShowExports = true
	}
	return v
}

func (v *pageView) showInput(form formValues, msg string) {
	v.Heading = wizard.StepInput.Title()
	v.Form = &form
	v.Error = msg
	v.Categories = dilemma.Categories()
	v.Urgencies = dilemma.UrgencyLevels()
	v.Markdown = ""
	v.ShowExports = false
	v.HasPrev = false
	v.HasNext, v.Next = len(v.Steps) > 1 && v.Steps[1].Accessible, 1
}

type renderer struct {
	md   goldmark.Markdown
	tmpl *template.Template
}

func newRenderer() *renderer {
	return &renderer{
		md:   goldmark.New(goldmark.WithExtensions(extension.GFM)),
		tmpl: template.Must(template.New("").ParseFS(templateFiles, "templates/*.html")),
	}
}

type pageData struct {
	pageView
	Body    template.HTML
	Studies template.HTML
}

func (r *renderer) toHTML(markdown string) (template.HTML, error) {
	if markdown == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.md.Convert([]byte(markdown), &buf); err != nil {
		return "", err
	}
	// goldmark drops raw HTML unless WithUnsafe is set.
	return template.HTML(buf.String()), nil
}

func (s *Server) writePage(w http.ResponseWriter, status int, v pageView) {
	body, err := s.pages.toHTML(v.Markdown)
	if err != nil {
		s.logger.Error("render markdown", "step", v.Current.ID(), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	studies, err := s.pages.toHTML(v.CaseStudies)
	if err != nil {
		s.logger.Error("render case studies", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	var buf bytes.Buffer
	if err := s.pages.tmpl.ExecuteTemplate(&buf, "page.html", pageData{pageView: v, Body: body, Studies: studies}); err != nil {
		s.logger.Error("execute template", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
