package main

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sushihentaime/agencysite/internal/userservice"
)

func (app *application) routes() http.Handler {
	router := httprouter.New()

	router.NotFound = http.HandlerFunc(app.notFoundErrorResponse)
	router.MethodNotAllowed = http.HandlerFunc(app.methodNotAllowedErrorResponse)

	handle := func(method, path string, h http.HandlerFunc) {
		router.Handler(method, path, instrument(path, h))
	}

	handle(http.MethodGet, "/v1/healthcheck", app.healthCheckHandler)
	router.Handler(http.MethodGet, "/metrics", promhttp.Handler())

	handle(http.MethodPost, "/v1/users/register", app.registerUserHandler)
	handle(http.MethodPut, "/v1/users/activate", app.activateUserHandler)
	handle(http.MethodPost, "/v1/users/login", app.loginUserHandler)
	handle(http.MethodPost, "/v1/users/logout", app.requireAuthUser(app.logoutUserHandler))
	handle(http.MethodGet, "/v1/users/me", app.requireAuthUser(app.currentUserHandler))
	handle(http.MethodPut, "/v1/users/me/avatar", app.requireActivatedUser(app.updateAvatarHandler))

	handle(http.MethodPost, "/v1/reviews", app.requirePermission(app.createReviewHandler, userservice.PermissionWriteReview))
	handle(http.MethodGet, "/v1/reviews", app.listReviewsHandler)
	handle(http.MethodGet, "/v1/reviews/:id", app.getReviewHandler)

	handle(http.MethodGet, "/v1/blogs", app.listBlogsHandler)
	handle(http.MethodGet, "/v1/blogs/:id", app.getBlogHandler)
	handle(http.MethodPost, "/v1/blogs", app.requirePermission(app.createBlogHandler, userservice.PermissionWriteBlog))
	handle(http.MethodPatch, "/v1/blogs/:id", app.requireActivatedUser(app.updateBlogHandler))
	handle(http.MethodDelete, "/v1/blogs/:id", app.requireActivatedUser(app.deleteBlogHandler))

	handle(http.MethodPost, "/v1/contact", app.rateLimit(app.submitContactHandler))
	handle(http.MethodPost, "/v1/project-inquiries", app.rateLimit(app.submitProjectInquiryHandler))
	handle(http.MethodPost, "/v1/job-applications", app.rateLimit(app.submitJobApplicationHandler))

	handle(http.MethodGet, "/v1/admin/reviews", app.requireActivatedUser(app.adminListReviewsHandler))
	handle(http.MethodPatch, "/v1/admin/reviews/:id/featured", app.requireActivatedUser(app.toggleFeaturedHandler))
	handle(http.MethodDelete, "/v1/admin/reviews/:id", app.requireActivatedUser(app.deleteReviewHandler))
	handle(http.MethodGet, "/v1/admin/blogs", app.requireActivatedUser(app.adminListBlogsHandler))
	handle(http.MethodGet, "/v1/admin/dashboard", app.requireActivatedUser(app.dashboardHandler))
	handle(http.MethodGet, "/v1/admin/counts/:kind", app.requireActivatedUser(app.countHandler))
	handle(http.MethodGet, "/v1/admin/recent-reviews", app.requireActivatedUser(app.recentReviewsHandler))
	handle(http.MethodGet, "/v1/admin/inquiries/:kind", app.requireActivatedUser(app.listInquiriesHandler))

	return app.recoverPanic(app.requestID(app.logRequest(app.enableCORS(app.authenticate(router)))))
}
