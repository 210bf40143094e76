package main

import (
	"errors"
	"net/http"

	"github.com/sushihentaime/agencysite/internal/reviewservice"
)

func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	var input reviewservice.CreateReviewRequest

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	input.UserID = app.getUserContext(r).ID

	review, err := app.reviewService.CreateReview(r.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, reviewservice.ErrUserForeignKey):
			app.invalidAuthenticationTokenResponse(w, r)
		default:
			app.serviceErrorResponse(w, r, err)
		}
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"review": review}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) getReviewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readIDParam(r, "id")
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	review, err := app.reviewService.GetReview(r.Context(), id)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"review": review}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// listReviewsHandler serves the public list. ?featured=true returns the testimonials.
func (app *application) listReviewsHandler(w http.ResponseWriter, r *http.Request) {
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

	var reviews []reviewservice.Review
	if featured != nil && *featured {
		reviews, err = app.reviewService.ListFeatured(r.Context(), limit)
	} else {
		reviews, err = app.reviewService.ListReviews(r.Context(), limit, offset)
	}
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, envelope{"reviews": reviews}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
