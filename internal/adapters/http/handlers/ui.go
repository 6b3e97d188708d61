package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-keeper/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-keeper/internal/adapters/render/html"
	"github.com/jsamuelsen/quote-keeper/internal/app"
)

// UI routes.
const (
	RoutePage   = "/"
	RouteCreate = "/quotes"
	RouteFilter = "/filter"
	RouteRandom = "/random"
	RouteDelete = "/quotes/:id/delete"
)

// UIHandler serves the quotes page. Each POST dispatches one event to the
// session's controller and redirects back to the page, so reloading the
// browser never repeats an action.
type UIHandler struct {
	sessions *Sessions
	title    string
}

// NewUIHandler creates the page handler.
func NewUIHandler(sessions *Sessions, title string) *UIHandler {
	if title == "" {
		title = html.DefaultTitle
	}

	return &UIHandler{sessions: sessions, title: title}
}

// deletePath is the path of a delete button's form.
type deletePath struct {
	ID int64 `uri:"id" validate:"gt=0"`
}

// RegisterRoutes registers the page and its form actions.
func (h *UIHandler) RegisterRoutes(rg gin.IRoutes) {
	rg.GET(RoutePage, h.Page)
	rg.POST(RouteCreate, h.Create)
	rg.POST(RouteFilter, h.Filter)
	rg.POST(RouteRandom, h.Random)
	rg.POST(RouteDelete, h.Delete)
}

// controller returns the session's controller. A new session loads the
// quote list before anything else touches its document.
func (h *UIHandler) controller(c *gin.Context) *app.Controller {
	ctrl, created := h.sessions.Get(c)
	if created {
		// Failures are shown in the status area
		_ = ctrl.Init(c.Request.Context())
	}

	return ctrl
}

// Page renders the session's document. Pending alerts are shown once.
func (h *UIHandler) Page(c *gin.Context) {
	doc := h.controller(c).Document()

	c.HTML(http.StatusOK, html.PageTemplate, html.NewPageData(h.title, doc.Snapshot(), doc.TakeAlerts()))
}

// Create handles the add form.
func (h *UIHandler) Create(c *gin.Context) {
	var event app.SubmitEvent
	if err := dto.BindFormAndValidate(c, &event); err != nil {
		_ = c.Error(err)
		return
	}

	h.dispatch(c, event)
}

// Filter handles the filter form.
func (h *UIHandler) Filter(c *gin.Context) {
	var event app.FilterEvent
	if err := dto.BindFormAndValidate(c, &event); err != nil {
		_ = c.Error(err)
		return
	}

	h.dispatch(c, event)
}

// Random handles the random button.
func (h *UIHandler) Random(c *gin.Context) {
	h.dispatch(c, app.RandomEvent{})
}

// Delete handles a quote's delete button.
func (h *UIHandler) Delete(c *gin.Context) {
	var path deletePath
	if err := dto.BindURIAndValidate(c, &path); err != nil {
		_ = c.Error(err)
		return
	}

	h.dispatch(c, app.DeleteEvent{ID: path.ID})
}

// dispatch runs event against the session's document and redirects to the
// page. The outcome is rendered there.
func (h *UIHandler) dispatch(c *gin.Context, event app.Event) {
	_ = h.controller(c).Dispatch(c.Request.Context(), event)

	c.Redirect(http.StatusSeeOther, RoutePage)
}
