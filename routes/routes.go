package routes

import (
	"net/http"

	"secondbrain/auth"
	"secondbrain/brain"
	"secondbrain/content"
	"secondbrain/middleware"
	"secondbrain/ratelim"
	"secondbrain/semantic"
	"secondbrain/utils"

	"github.com/julienschmidt/httprouter"
)

func AddAuthRoutes(router *httprouter.Router, h *auth.Handler, rl *ratelim.RateLimiter) {
	router.POST("/api/v1/sign-up", rl.Limit(h.Register))
	router.POST("/api/v1/sign-in", rl.Limit(h.Login))
}

func AddContentRoutes(router *httprouter.Router, s *content.Service) {
	router.GET("/api/v1/content", middleware.Authenticate(s.GetContent))
	router.POST("/api/v1/content", middleware.Authenticate(s.CreateContent))
	router.DELETE("/api/v1/content", middleware.Authenticate(s.DeleteContent))
}

func AddBrainRoutes(router *httprouter.Router, h *brain.Handler) {
	router.POST("/api/v1/brain/share", middleware.Authenticate(h.CreateShareLink))
	router.GET("/api/v1/brain/:sharelink", h.GetSharedContent)
}

func AddSearchRoutes(router *httprouter.Router, h *semantic.Handler) {
	router.GET("/api/v1/search/:query", h.Search)
	router.POST("/api/v1/search", h.IndexDocument)
}

// NotFoundHandler answers every unmatched route with the JSON 404 body.
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.RespondWithError(w, http.StatusNotFound, "Invalid route. Please check the API endpoint.")
	})
}
