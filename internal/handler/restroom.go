package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restroom-web/internal/api"
	"github.com/iliyamo/restroom-web/internal/guard"
	"github.com/iliyamo/restroom-web/internal/model"
)

type restroomForm struct {
	Name    string `form:"name"`
	Address string `form:"address"`
}

func (f *restroomForm) normalize() string {
	f.Name = strings.TrimSpace(f.Name)
	f.Address = strings.TrimSpace(f.Address)
	if f.Name == "" || f.Address == "" {
		return "Name and address are required."
	}
	return ""
}

type reviewForm struct {
	Rating      string `form:"rating"`
	CommentText string `form:"comment_text"`
}

// restroomPage is the data of the detail template.
type restroomPage struct {
	Restroom model.Restroom
	Reviews  []model.Review
}

// Restroom renders the detail view of one restroom with its reviews.
func (h *Handler) Restroom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.notFound(c, "Restroom not found.")
	}
	return h.renderRestroom(c, id, http.StatusOK, "")
}

// renderRestroom loads the restroom and its reviews and renders the detail
// page with an optional error from a failed form submission.
func (h *Handler) renderRestroom(c echo.Context, id int64, status int, formErr string) error {
	ctx := c.Request().Context()
	cl := h.client(c)
	p := page(c, "Restroom")

	r, err := cl.Restrooms().Detail(ctx, id)
	if err != nil {
		if status == http.StatusOK {
			status = upstreamStatus(err)
		}
		p.Error = errorText(err, "Failed to load restroom.")
		if api.IsNotFound(err) {
			p.Error = "Restroom not found."
		}
		return c.Render(status, "error", p)
	}
	p.Title = r.Name

	reviews, err := cl.Reviews().List(ctx, id)
	if err != nil {
		c.Logger().Warnf("list reviews of %d: %v", id, err)
		p.Error = "Failed to load reviews."
		reviews = nil
	}
	if formErr != "" {
		p.Error = formErr
	}
	p.Data = restroomPage{Restroom: r, Reviews: reviews}
	return c.Render(status, "restroom", p)
}

// CreateReview posts a review of the restroom in the path.
func (h *Handler) CreateReview(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.notFound(c, "Restroom not found.")
	}
	var f reviewForm
	if err := c.Bind(&f); err != nil {
		return h.renderRestroom(c, id, http.StatusBadRequest, "Invalid form submission.")
	}
	rating, err := parseRating(f.Rating)
	if err != nil {
		return h.renderRestroom(c, id, http.StatusBadRequest, err.Error())
	}

	body := map[string]any{
		"restroom":     id,
		"rating":       rating,
		"comment_text": strings.TrimSpace(f.CommentText),
	}
	if _, err := h.client(c).Reviews().Create(c.Request().Context(), body); err != nil {
		return h.renderRestroom(c, id, upstreamStatus(err), errorText(err, "Failed to submit review."))
	}
	return seeOther(c, fmt.Sprintf("/restroom/%d?notice=review", id))
}

func parseRating(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < model.MinRating || n > model.MaxRating {
		return 0, fmt.Errorf("Rating must be between %d and %d.", model.MinRating, model.MaxRating)
	}
	return n, nil
}

// UpdateRestroom saves the edit form of the detail view.
func (h *Handler) UpdateRestroom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.notFound(c, "Restroom not found.")
	}
	var f restroomForm
	if err := c.Bind(&f); err != nil {
		return h.renderRestroom(c, id, http.StatusBadRequest, "Invalid form submission.")
	}
	if msg := f.normalize(); msg != "" {
		return h.renderRestroom(c, id, http.StatusBadRequest, msg)
	}
	body := map[string]string{"name": f.Name, "address": f.Address}
	if _, err := h.client(c).Restrooms().Update(c.Request().Context(), id, body); err != nil {
		return h.renderRestroom(c, id, upstreamStatus(err), errorText(err, "Failed to update restroom."))
	}
	return seeOther(c, fmt.Sprintf("/restroom/%d?notice=updated", id))
}

// DeleteRestroom deletes the restroom and returns to the list.
func (h *Handler) DeleteRestroom(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return h.notFound(c, "Restroom not found.")
	}
	if err := h.client(c).Restrooms().Delete(c.Request().Context(), id); err != nil {
		return h.renderRestroom(c, id, upstreamStatus(err), errorText(err, "Failed to delete restroom."))
	}
	return seeOther(c, guard.HomePath+"?notice=deleted")
}

// NewRestroomForm renders the add-restroom form.
func (h *Handler) NewRestroomForm(c echo.Context) error {
	return c.Render(http.StatusOK, "restroom_new", page(c, "Add Restroom"))
}

// CreateRestroom submits the add-restroom form and opens the new restroom.
func (h *Handler) CreateRestroom(c echo.Context) error {
	var f restroomForm
	p := page(c, "Add Restroom")
	if err := c.Bind(&f); err != nil {
		p.Error = "Invalid form submission."
		return c.Render(http.StatusBadRequest, "restroom_new", p)
	}
	msg := f.normalize()
	p.Data = f
	if msg != "" {
		p.Error = msg
		return c.Render(http.StatusBadRequest, "restroom_new", p)
	}
	r, err := h.client(c).Restrooms().Create(c.Request().Context(), map[string]string{"name": f.Name, "address": f.Address})
	if err != nil {
		p.Error = errorText(err, "Failed to create restroom.")
		return c.Render(upstreamStatus(err), "restroom_new", p)
	}
	if r.ID <= 0 {
		return seeOther(c, guard.HomePath+"?notice=created")
	}
	return seeOther(c, fmt.Sprintf("/restroom/%d?notice=created", r.ID))
}

func (h *Handler) notFound(c echo.Context, msg string) error {
	p := page(c, "Not found")
	p.Error = msg
	return c.Render(http.StatusNotFound, "error", p)
}
