package item

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/leg100/rawlink/internal"
	rawhttp "github.com/leg100/rawlink/internal/http"
)

type (
	// Sharer constructs the URL of the issue endpoint for an item.
	Sharer interface {
		IssueURL(r *http.Request, id string) (string, error)
	}

	api struct {
		*Service
		Sharer

		maxUploadSize int64 // Maximum permitted upload size in bytes
	}

	// CreateResponse is returned to the uploader of new content.
	CreateResponse struct {
		ID       string `json:"id"`
		Token    string `json:"token"`
		IssueURL string `json:"issue_url"`
	}

	// ListResponse enumerates known item IDs.
	ListResponse struct {
		Items []string `json:"items"`
	}
)

func (a *api) addHandlers(r *mux.Router) {
	r = r.PathPrefix(rawhttp.APIBasePath).Subrouter()
	r.HandleFunc("/items", a.create).Methods("POST")
	r.HandleFunc("/items", a.list).Methods("GET")
}

func (a *api) create(w http.ResponseWriter, r *http.Request) {
	if a.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, a.maxUploadSize)
	}
	content, err := io.ReadAll(r.Body)
	if err != nil {
		maxBytesError := &http.MaxBytesError{}
		if errors.As(err, &maxBytesError) {
			a.Error(err, "rejected upload", "limit", a.maxUploadSize)
			rawhttp.Error(w, internal.ErrUploadTooLarge)
			return
		}
		rawhttp.Error(w, err)
		return
	}

	item, err := a.Create(r.Context(), content)
	if err != nil {
		rawhttp.Error(w, err)
		return
	}

	issueURL, err := a.IssueURL(r, item.ID)
	if err != nil {
		rawhttp.Error(w, err)
		return
	}

	rawhttp.JSON(w, http.StatusCreated, CreateResponse{
		ID:       item.ID,
		Token:    item.Token,
		IssueURL: issueURL,
	})
}

func (a *api) list(w http.ResponseWriter, r *http.Request) {
	ids, err := a.List(r.Context())
	if err != nil {
		rawhttp.Error(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	rawhttp.JSON(w, http.StatusOK, ListResponse{Items: ids})
}
