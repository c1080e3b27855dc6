package handler

import (
	"log/slog"
	"net/http"
	"strings"

	docsysSvc "docum/internal/domain/services/docsystem"
	"docum/internal/httputil"
	"docum/internal/middleware"

	"github.com/rs/cors"
)

// Services are the collaborators the routes dispatch to.
type Services struct {
	Users     docsysSvc.UserService
	Folders   docsysSvc.FolderService
	Documents docsysSvc.DocumentService
	Trees     docsysSvc.TreeService
	Activity  docsysSvc.ActivityLogService
}

// NewRouter registers every route and wraps the mux in the middleware chain.
// corsOrigins is a comma-separated origin list.
func NewRouter(svc Services, corsOrigins string, logger *slog.Logger) http.Handler {
	userHandler := NewUserHandler(svc.Users, logger)
	folderHandler := NewFolderHandler(svc.Folders, logger)
	docHandler := NewDocumentHandler(svc.Documents, logger)
	treeHandler := NewTreeHandler(svc.Trees, logger)
	activityHandler := NewActivityHandler(svc.Activity, logger)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthCheck)

	// User routes
	mux.HandleFunc("POST /api/users", userHandler.CreateUser)
	mux.HandleFunc("GET /api/users", userHandler.ListUsers)
	mux.HandleFunc("GET /api/users/{id}", userHandler.GetUser)
	mux.HandleFunc("PATCH /api/users/{id}", userHandler.UpdateUser)
	mux.HandleFunc("DELETE /api/users/{id}", userHandler.DeleteUser)

	// Tree and activity
	mux.HandleFunc("GET /api/users/{id}/tree", treeHandler.GetTree)
	mux.HandleFunc("GET /api/users/{id}/activity", activityHandler.ListActivity)

	// Folder routes
	mux.HandleFunc("POST /api/users/{id}/folders", folderHandler.CreateFolder)
	mux.HandleFunc("PATCH /api/users/{id}/folders/{folderID}", folderHandler.RenameFolder)
	mux.HandleFunc("POST /api/users/{id}/folders/{folderID}/documents", folderHandler.CreateDocument)

	// Document routes
	mux.HandleFunc("GET /api/users/{id}/documents/{documentID}", docHandler.GetDocument)
	mux.HandleFunc("PUT /api/users/{id}/documents/{documentID}", docHandler.UpdateDocument)
	mux.HandleFunc("PUT /api/users/{id}/documents/{documentID}/content", docHandler.ImportContent)
	mux.HandleFunc("POST /api/users/{id}/documents/{documentID}/grants", docHandler.GrantAccess)
	mux.HandleFunc("PUT /api/users/{id}/documents/{documentID}/keywords", docHandler.SetKeywords)

	// Order: CORS → Recovery → Logging → Routes
	var handler http.Handler = mux
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	// CORS must run first to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(corsOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})
	return corsHandler.Handler(handler)
}

// HealthCheck reports liveness
// GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
