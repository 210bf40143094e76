package main

import (
	"net/http"

	"github.com/sushihentaime/agencysite/internal/inquiryservice"
)

func (app *application) submitContactHandler(w http.ResponseWriter, r *http.Request) {
	var input inquiryservice.ContactSubmission

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.inquiryService.SubmitContact(r.Context(), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"contact_submission": input}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) submitProjectInquiryHandler(w http.ResponseWriter, r *http.Request) {
	var input inquiryservice.ProjectInquiry

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.inquiryService.SubmitProjectInquiry(r.Context(), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"project_inquiry": input}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *application) submitJobApplicationHandler(w http.ResponseWriter, r *http.Request) {
	var input inquiryservice.JobApplication

	err := app.parseJSON(w, r, &input)
	if err != nil {
		app.badRequestErrorResponse(w, r, err)
		return
	}

	err = app.inquiryService.SubmitJobApplication(r.Context(), &input)
	if err != nil {
		app.serviceErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, envelope{"job_application": input}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
