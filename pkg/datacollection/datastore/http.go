package datastore

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
)

// errorResponse is the JSON body of failed requests.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// viewResponse is the JSON body of GET /views/{path}.
type viewResponse struct {
	Path     string `json:"path"`
	Kind     string `json:"kind"`
	External bool   `json:"external"`
	Len      int    `json:"len"`
	Data     any    `json:"data"`
}

// Handler serves a read-only JSON view of store:
//
//	GET /groups          tree of groups and view names, without array data
//	GET /groups/{path}   the same, below one group
//	GET /views/{path}    one view including its data
func Handler(store *Store) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, store)
	return router
}

// RegisterRoutes adds the store routes to router.
func RegisterRoutes(router *mux.Router, store *Store) {
	router.HandleFunc("/groups", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Root().Copy(false))
	}).Methods(http.MethodGet)

	router.HandleFunc("/groups/{path:.+}", func(w http.ResponseWriter, r *http.Request) {
		path := mux.Vars(r)["path"]
		g, ok := store.Group(path)
		if !ok {
			writeError(w, http.StatusNotFound, "group "+path+" "+ErrNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, g.Copy(false))
	}).Methods(http.MethodGet)

	router.HandleFunc("/views/{path:.+}", func(w http.ResponseWriter, r *http.Request) {
		path := mux.Vars(r)["path"]
		v, ok := store.View(path)
		if !ok {
			writeError(w, http.StatusNotFound, "view "+path+" "+ErrNotFound.Error())
			return
		}
		writeJSON(w, http.StatusOK, viewResponse{
			Path:     path,
			Kind:     v.Kind().String(),
			External: v.External(),
			Len:      v.Len(),
			Data:     v.Value(),
		})
	}).Methods(http.MethodGet)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
