package web

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"pctracer-svc/src/internal/activity"
	"pctracer-svc/src/internal/admin"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/report"
	"pctracer-svc/src/internal/response"
	"pctracer-svc/src/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const defaultRangeDays = 7

type UserLister interface {
	ListNames(ctx context.Context) ([]user.NameView, error)
	ListExisting(ctx context.Context) ([]user.Summary, error)
}

type RecordLister interface {
	List(ctx context.Context, user string) ([]activity.Record, error)
}

type AdminLister interface {
	List(ctx context.Context) ([]admin.Summary, error)
}

type StatsProvider interface {
	Summary(ctx context.Context) (*models.Stats, error)
}

type Handler interface {
	Index(c *gin.Context)
	Activities(c *gin.Context)
	Settings(c *gin.Context)
	Contact(c *gin.Context)
}

type handler struct {
	config     *config.Configuration
	users      UserLister
	activities RecordLister
	admins     AdminLister
	stats      StatsProvider
	now        func() time.Time
}

func NewHandler(cfg *config.Configuration, users UserLister, activities RecordLister, admins AdminLister, stats StatsProvider) Handler {
	return &handler{
		config:     cfg,
		users:      users,
		activities: activities,
		admins:     admins,
		stats:      stats,
		now:        time.Now,
	}
}

type page struct {
	Title    string
	UserName string
	Error    string
}

type userLink struct {
	Name string
	Link string
}

type appOption struct {
	Name     string
	Selected bool
}

type activitiesPage struct {
	page
	Filter report.Filter
	Users  []userLink
	Apps   []appOption
	Units  []string
	Rows   []report.Row
	Top    []report.AppShare
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func newPage(c *gin.Context, title string) page {
	return page{Title: title, UserName: c.GetString("user_name")}
}

// pageError turns err into the banner text; 5xx causes stay in the log.
func pageError(err error) (int, string) {
	status := response.Status(err)
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).Error("Page data unavailable")
		return status, "Data could not be loaded, try again later"
	}
	return status, err.Error()
}

func (h *handler) Index(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	data := struct {
		page
		Users []user.NameView
		Stats *models.Stats
	}{page: newPage(c, "Home")}

	status := http.StatusOK
	users, err := h.users.ListNames(ctx)
	if err != nil {
		status, data.Error = pageError(err)
	}
	data.Users = users

	if summary, err := h.stats.Summary(ctx); err == nil {
		data.Stats = summary
	} else {
		logrus.WithError(err).Warn("Stats unavailable for index page")
	}

	c.HTML(status, "index.html", data)
}

// Activities renders the filterable activity report for one user. Without any
// query it shows the first user over the last seven days.
func (h *handler) Activities(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	data := activitiesPage{page: newPage(c, "Activities"), Units: report.Units}

	var filter report.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.renderActivities(c, &data, http.StatusBadRequest, "Invalid filter: "+err.Error())
		return
	}
	filter.Unit = report.NormalizeUnit(filter.Unit)
	if filter.Unit == "" {
		filter.Unit = report.UnitSecond
	}

	names, err := h.users.ListNames(ctx)
	if err != nil {
		data.Filter = filter
		status, msg := pageError(err)
		h.renderActivities(c, &data, status, msg)
		return
	}

	if c.Request.URL.RawQuery == "" {
		today := h.now().In(h.config.Location())
		filter.From = today.AddDate(0, 0, -defaultRangeDays).Format("2006-01-02")
		filter.To = today.Format("2006-01-02")
		if len(names) > 0 {
			filter.User = names[0].Name
		}
	}
	data.Filter = filter
	data.Users = userLinks(names, filter)

	if filter.User == "" {
		h.renderActivities(c, &data, http.StatusOK, "")
		return
	}

	records, err := h.activities.List(ctx, filter.User)
	if err != nil {
		status, msg := pageError(err)
		h.renderActivities(c, &data, status, msg)
		return
	}

	for _, app := range report.DistinctApps(records) {
		data.Apps = append(data.Apps, appOption{Name: app, Selected: slices.Contains(filter.Apps, app)})
	}

	filtered, err := report.Apply(records, filter)
	if err != nil {
		status, msg := pageError(err)
		h.renderActivities(c, &data, status, msg)
		return
	}

	data.Rows = report.Rows(filtered, filter.Unit)
	data.Top = report.TopApps(filtered, report.TopAppsLimit)
	h.renderActivities(c, &data, http.StatusOK, "")
}

func (h *handler) renderActivities(c *gin.Context, data *activitiesPage, status int, msg string) {
	data.Error = msg
	c.HTML(status, "activities.html", data)
}

// userLinks keeps the current filter when switching users, except the app
// selection which belongs to the previous user.
func userLinks(names []user.NameView, filter report.Filter) []userLink {
	links := make([]userLink, 0, len(names))
	for _, n := range names {
		q := url.Values{}
		q.Set("user", n.Name)
		q.Set("unit", filter.Unit)
		if filter.Min != 0 {
			q.Set("min", strconv.FormatFloat(filter.Min, 'f', -1, 64))
		}
		if filter.Max != 0 {
			q.Set("max", strconv.FormatFloat(filter.Max, 'f', -1, 64))
		}
		if filter.From != "" {
			q.Set("from", filter.From)
		}
		if filter.To != "" {
			q.Set("to", filter.To)
		}
		links = append(links, userLink{Name: n.Name, Link: "/activities?" + q.Encode()})
	}
	return links
}

func (h *handler) Settings(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	data := struct {
		page
		Admins       []admin.Summary
		TrackedUsers []user.Summary
	}{page: newPage(c, "Settings")}

	status := http.StatusOK
	admins, err := h.admins.List(ctx)
	if err != nil {
		status, data.Error = pageError(err)
	}
	data.Admins = admins

	users, err := h.users.ListExisting(ctx)
	if err != nil {
		status, data.Error = pageError(err)
	}
	data.TrackedUsers = users

	c.HTML(status, "ayarlar.html", data)
}

func (h *handler) Contact(c *gin.Context) {
	c.HTML(http.StatusOK, "iletisim.html", newPage(c, "Contact"))
}
