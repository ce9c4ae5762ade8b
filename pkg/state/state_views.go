package state

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/wcd-ekocoy/wow-achievements/pkg/blizzard"
	"github.com/wcd-ekocoy/wow-achievements/pkg/logging"
	"github.com/wcd-ekocoy/wow-achievements/pkg/sotah"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.html
var templatesFS embed.FS

var printer = message.NewPrinter(language.English)

const timestampLayout = "2006-01-02 15:04 UTC"

type viewName string

const (
	indexView        viewName = "index.html"
	achievementsView viewName = "achievements.html"
	privacyView      viewName = "privacy.html"
	errorView        viewName = "error.html"
)

type views map[viewName]*template.Template

func mustParseViews() views {
	out := views{}
	for _, name := range []viewName{indexView, achievementsView, privacyView, errorView} {
		out[name] = template.Must(template.ParseFS(templatesFS, "templates/layout.html", "templates/"+string(name)))
	}

	return out
}

type layoutViewModel struct {
	Title         string
	Authenticated bool
	BattleTag     string
	RequestID     string
}

func (sta State) newLayoutViewModel(r *http.Request, title string) layoutViewModel {
	out := layoutViewModel{Title: title, RequestID: requestIDFromContext(r.Context())}
	if s, ok := sessionFromContext(r.Context()); ok {
		out.Authenticated = true
		out.BattleTag = s.BattleTag
	}

	return out
}

type regionOption struct {
	Code  string
	Label string
}

var regionOptions = []regionOption{
	{Code: "us", Label: "Americas"},
	{Code: "eu", Label: "Europe"},
	{Code: "kr", Label: "Korea"},
	{Code: "tw", Label: "Taiwan"},
}

type indexViewModel struct {
	layoutViewModel
	Regions      []regionOption
	Region       blizzard.RegionName
	Characters   blizzard.Characters
	ErrorMessage string
	DebugInfo    string
}

type achievementRow struct {
	Name        string
	Description string
	Points      string
	Completed   bool
	CompletedAt string
}

func newAchievementRow(a blizzard.Achievement) achievementRow {
	out := achievementRow{Name: a.Name(), Completed: a.IsCompleted()}
	if a.AchievementInfo != nil {
		if a.AchievementInfo.Description != nil {
			out.Description = *a.AchievementInfo.Description
		}
		if a.AchievementInfo.Points != nil {
			out.Points = printer.Sprintf("%d", *a.AchievementInfo.Points)
		}
	}
	if out.Completed {
		out.CompletedAt = a.CompletedAt().Format(timestampLayout)
	}

	return out
}

type achievementsViewModel struct {
	layoutViewModel
	CharacterName string
	RealmSlug     blizzard.RealmSlug
	Region        blizzard.RegionName
	Query         string
	ErrorMessage  string

	Loaded        bool
	TotalPoints   string
	TotalQuantity string
	Page          sotah.PageResult
	Rows          []achievementRow
	PreviousURL   string
	NextURL       string
}

func (vm achievementsViewModel) pageURL(page int) string {
	q := url.Values{}
	q.Set("realmSlug", string(vm.RealmSlug))
	q.Set("characterName", vm.CharacterName)
	q.Set("page", strconv.Itoa(page))
	if vm.Query != "" {
		q.Set("q", vm.Query)
	}

	return AchievementsPath + "?" + q.Encode()
}

func (vm *achievementsViewModel) setResult(ca blizzard.CharacterAchievements, page sotah.PageResult) {
	vm.Loaded = true
	vm.TotalPoints = printer.Sprintf("%d", ca.TotalPoints)
	if ca.TotalQuantity != nil {
		vm.TotalQuantity = printer.Sprintf("%d", *ca.TotalQuantity)
	}
	vm.Page = page

	vm.Rows = make([]achievementRow, len(page.Items))
	for i, a := range page.Items {
		vm.Rows[i] = newAchievementRow(a)
	}

	if page.HasPrevious() {
		vm.PreviousURL = vm.pageURL(page.PreviousPage())
	}
	if page.HasNext() {
		vm.NextURL = vm.pageURL(page.NextPage())
	}
}

type errorViewModel struct {
	layoutViewModel
	Status int
}

func (sta State) render(w http.ResponseWriter, name viewName, status int, data interface{}) {
	tmpl, ok := sta.views[name]
	if !ok {
		logging.WithField("view", name).Error("Unknown view")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	buf := &bytes.Buffer{}
	if err := tmpl.ExecuteTemplate(buf, "layout", data); err != nil {
		logging.WithFields(logrus.Fields{
			"error": err.Error(),
			"view":  name,
		}).Error("Failed to render view")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func (sta State) renderErrorPage(w http.ResponseWriter, r *http.Request, status int) {
	w.Header().Set("Cache-Control", "no-store")

	sta.render(w, errorView, status, errorViewModel{
		layoutViewModel: sta.newLayoutViewModel(r, "Error"),
		Status:          status,
	})
}
