package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/agencysite/internal/common"
	"github.com/sushihentaime/agencysite/internal/reviewservice"
)

// The admin handlers only require an activated account. Whether the actor may moderate
// is decided by the services, in the same transaction as the read or write.

func (app *application) adminListReviewsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	featured, err := app.readBoolParam(r, "featured")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	filter := reviewservice.ListFilter{Featured: featured, Limit: limit, Offset: offset}

	reviews, err := app.reviewService.AdminListReviews(r.Context(), app.getUserContext(r).ID, filter)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

type toggleFeaturedRequest struct {
	Current *bool `json:"current"`
}

// toggleFeaturedHandler flips is_featured. A body carrying the value the client last saw
// turns the toggle into a compare-and-swap that answers 409 when that value is stale.
func (app *application) toggleFeaturedHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	var input toggleFeaturedRequest
	err = app.parseJSON(w, r, &input)
	if err != nil && !errors.Is(err, errEmptyBody) {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	actorID := app.getUserContext(r).ID

	var review *reviewservice.Review
	if input.Current != nil {
		review, err = app.reviewService.SetFeatured(r.Context(), actorID, id, *input.Current)
	} else {
		review, err = app.reviewService.ToggleFeatured(r.Context(), actorID, id)
	}
	recordModeration("toggle_featured", err)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) deleteReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.reviewService.DeleteReview(r.Context(), app.getUserContext(r).ID, id)
	recordModeration("delete", err)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"message": "review deleted"}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) dashboardHandler(w http.ResponseWriter, r *http.Request) {
	summary, err := app.dashboardService.Summary(r.Context(), app.getUserContext(r).ID)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"dashboard": summary}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) countHandler(w http.ResponseWriter, r *http.Request) {
	kind := common.EntityKind(app.readStringParam(r, "kind"))

	n, err := app.dashboardService.Count(r.Context(), app.getUserContext(r).ID, kind)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"kind": kind, "count": n}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) recentReviewsHandler(w http.ResponseWriter, r *http.Request) {
	limit, _, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	reviews, err := app.dashboardService.RecentReviews(r.Context(), app.getUserContext(r).ID, limit)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) listInquiriesHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	kind := common.EntityKind(app.readStringParam(r, "kind"))

	items, err := app.inquiryService.List(r.Context(), app.getUserContext(r).ID, kind, limit, offset)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{string(kind): items}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) adminListBlogsHandler(w http.ResponseWriter, r *http.Request) {
	limit, offset, err := app.readLimitOffsetParams(r)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	blogs, err := app.blogService.AdminGetBlogs(r.Context(), app.getUserContext(r).ID, limit, offset)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"blogs": blogs}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
