package app

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/caffeinepub/anime-clip-gallery-1/internal/catalog"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/search"
	"github.com/caffeinepub/anime-clip-gallery-1/internal/uploader"
)

type appHandler func(http.ResponseWriter, *http.Request) error

func (fn appHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := fn(w, r); err != nil {
		log.Printf("Error: %v", err)
		if e, ok := err.(*AppError); ok {
			replyJSON(w, e, e.Code)
		} else {
			http.Error(w, fmt.Sprintf("Internal server error: %v", err), http.StatusInternalServerError)
		}
	}
}

// Register API endpoints to the router.
func SetupRoutes(r *mux.Router, svc *catalog.Service, uploads *uploader.Coordinator, resumable *uploader.Resumable, policy catalog.DisplayPolicy) {
	c := &controller{catalog: svc, uploads: uploads, resumable: resumable, policy: policy}
	c.searcher = search.NewDebouncer(search.DefaultSettle, c.commitSearch)
	r.Methods("GET").Path("/gallery/v1/clips").Handler(appHandler(c.listClips))
	r.Methods("POST").Path("/gallery/v1/clips").Handler(appHandler(c.createClip))
	r.Methods("DELETE").Path("/gallery/v1/clips/{id}").Handler(appHandler(c.deleteClip))
	r.Methods("GET").Path("/gallery/v1/categories").Handler(appHandler(c.listCategories))
	r.Methods("GET").Path("/gallery/v1/search").Handler(appHandler(c.getSearch))
	r.Methods("PUT").Path("/gallery/v1/search").Handler(appHandler(c.typeSearch))
	r.Methods("DELETE").Path("/gallery/v1/search").Handler(appHandler(c.clearSearch))
	r.Methods("GET").Path("/gallery/v1/requests").Handler(appHandler(c.listRequests))
	r.Methods("POST").Path("/gallery/v1/requests").Handler(appHandler(c.createRequest))
	r.Methods("PUT").Path("/gallery/v1/requests/{id}/status").Handler(appHandler(c.updateRequestStatus))
	r.Methods("DELETE").Path("/gallery/v1/requests/{id}").Handler(appHandler(c.deleteRequest))
	r.Methods("POST").Path("/gallery/v1/clips/upload").Handler(appHandler(c.uploadClip))
	r.Methods("GET").Path("/gallery/v1/clips/upload/progress").Handler(appHandler(c.uploadProgress))
	r.Methods("POST").Path("/gallery/v1/uploads").Handler(appHandler(c.createUploadSession))
	r.Methods("PUT").Path("/gallery/v1/uploads/{id}").Handler(appHandler(c.uploadChunk))
	r.Methods("GET").Path("/gallery/v1/uploads/{id}").Handler(appHandler(c.getUploadSession))
}
