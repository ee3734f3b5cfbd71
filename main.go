package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secondbrain/auth"
	"secondbrain/brain"
	"secondbrain/content"
	"secondbrain/db"
	"secondbrain/mq"
	"secondbrain/ratelim"
	"secondbrain/routes"
	"secondbrain/semantic"
	"secondbrain/tags"
	"secondbrain/utils"

	"github.com/joho/godotenv"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
)

// securityHeaders applies a set of recommended HTTP security headers.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "frame-ancestors 'none'")
		w.Header().Set("Referrer-Policy", "no-referrer")
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs each request method, path, remote address, caller
// (when a valid bearer token is present), and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		duration := time.Since(start)
		if username := utils.GetUsernameFromRequest(r); username != "" {
			log.Printf("%s %s from %s (%s) – %v", r.Method, r.RequestURI, r.RemoteAddr, username, duration)
			return
		}
		log.Printf("%s %s from %s – %v", r.Method, r.RequestURI, r.RemoteAddr, duration)
	})
}

// Index is a simple health check handler.
func Index(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	fmt.Fprint(w, "200")
}

// newGateway picks the vector backend: the hosted collection when CHROMA_URL
// is configured, otherwise an in-process index fed by the embedding service.
func newGateway() semantic.Gateway {
	if chromaURL := os.Getenv("CHROMA_URL"); chromaURL != "" {
		return semantic.NewChromaGateway(
			chromaURL,
			os.Getenv("CHROMA_API_KEY"),
			os.Getenv("CHROMA_TENANT"),
			os.Getenv("CHROMA_DATABASE"),
		)
	}

	embedderURL := os.Getenv("EMBEDDER_URL")
	if embedderURL == "" {
		embedderURL = "http://localhost:8081/embed"
	}
	return semantic.NewLocalGateway(semantic.NewEmbedder(embedderURL))
}

func setupRouter(rateLimiter *ratelim.RateLimiter, gateway semantic.Gateway) *httprouter.Router {
	users := &auth.MongoUserStore{Coll: db.UserCollection}
	registry := tags.NewRegistry(&tags.MongoStore{Coll: db.TagCollection})
	contentSvc := content.NewService(&content.MongoStore{Coll: db.ContentCollection}, users, registry)
	brainHandler := brain.NewHandler(&brain.MongoLinkStore{Coll: db.LinksCollection}, contentSvc)

	router := httprouter.New()
	router.GET("/health", Index)
	router.NotFound = routes.NotFoundHandler()

	routes.AddAuthRoutes(router, auth.NewHandler(users), rateLimiter)
	routes.AddContentRoutes(router, contentSvc)
	routes.AddBrainRoutes(router, brainHandler)
	routes.AddSearchRoutes(router, semantic.NewHandler(gateway))

	return router
}

func main() {
	// load .env if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = ":8080"
	} else if port[0] != ':' {
		port = ":" + port
	}

	rateLimiter := ratelim.NewRateLimiter()
	gateway := newGateway()

	workerCtx, stopWorker := context.WithCancel(context.Background())
	go mq.StartIndexingWorker(workerCtx, gateway)

	router := setupRouter(rateLimiter, gateway)

	// apply middleware: CORS → security headers → logging → router
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // lock down in production
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(router)

	handler := loggingMiddleware(securityHeaders(corsHandler))

	server := &http.Server{
		Addr:              port,
		Handler:           handler,
		ReadTimeout:       7 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Println("Stopping indexing worker...")
		stopWorker()
	})

	go func() {
		log.Printf("Server listening on %s", port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutdown signal received; shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}

	log.Println("Server stopped cleanly")
}
