package link

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"text/template"
	"time"

	"github.com/gorilla/mux"
	"github.com/leg100/rawlink/internal"
	rawhttp "github.com/leg100/rawlink/internal/http"
	"github.com/leg100/rawlink/internal/logr"
)

const (
	issuePath       = "/signed/"
	signedIssuePath = "/issue/"
)

type (
	web struct {
		logr.Logger
		*Service

		items          Items
		baseURL        *internal.WebURL
		identityHeader string
		invocation     *template.Template
		shareSigner    ShareSigner
		shareTTL       time.Duration
		now            func() time.Time
	}

	// ShareResponse is returned when requesting the issue URL for an item.
	ShareResponse struct {
		ID        string     `json:"id"`
		IssueURL  string     `json:"issue_url"`
		ExpiresAt *time.Time `json:"expires_at,omitempty"`
	}

	invocationData struct {
		ID  string
		URL string
	}
)

func (h *web) addHandlers(r *mux.Router) {
	if h.shareTTL > 0 {
		signed := r.PathPrefix("/signed/{signature.expiry}").Subrouter()
		signed.Use(internal.VerifySignedURL(h.shareSigner))
		signed.HandleFunc(signedIssuePath+"{id}", h.issue).Methods("GET")
	} else {
		r.HandleFunc(issuePath+"{id}", h.issue).Methods("GET")
	}
	r.HandleFunc(RawPath+"{id}", h.raw).Methods("GET")
	r.HandleFunc(rawhttp.APIBasePath+"/items/{id}/share", h.share).Methods("GET")
}

// issue responds with an invocation embedding a freshly signed raw link.
func (h *web) issue(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	rawURL, err := h.RawURL(r.Context(), h.base(r), id)
	if errors.Is(err, ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	} else if err != nil {
		h.Error(err, "issuing link", "id", id)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := h.invocation.Execute(&buf, invocationData{ID: id, URL: rawURL}); err != nil {
		h.Error(err, "rendering invocation", "id", id)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	linksIssuedMetric.Inc()
	h.V(1).Info("issued link", "id", id)

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// raw verifies a presented link and responds with the item's content.
func (h *web) raw(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	q := r.URL.Query()

	content, err := h.Verify(r.Context(), FetchRequest{
		ID:             id,
		Token:          q.Get("token"),
		Timestamp:      q.Get("ts"),
		Signature:      q.Get("sig"),
		ClientIdentity: r.Header.Get(h.identityHeader),
	})
	recordFetch(err)
	if err != nil {
		if rej, ok := lookupRejection(err); ok {
			h.V(1).Info("rejected fetch", "id", id, "reason", rej.reason)
			w.Header().Set(rawhttp.ErrorReasonHeader, rej.reason)
			http.Error(w, rej.body, rej.status)
			return
		}
		h.Error(err, "verifying link", "id", id)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	h.V(2).Info("released content", "id", id, "bytes", len(content))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(content)
}

// share responds with the issue URL for an item.
func (h *web) share(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.items.Get(r.Context(), id); err != nil {
		rawhttp.Error(w, err)
		return
	}
	issueURL, err := h.issueURL(r, id)
	if err != nil {
		rawhttp.Error(w, err)
		return
	}
	resp := ShareResponse{ID: id, IssueURL: issueURL}
	if h.shareTTL > 0 {
		expiry := h.now().Add(h.shareTTL).UTC()
		resp.ExpiresAt = &expiry
	}
	rawhttp.JSON(w, http.StatusOK, resp)
}

func (h *web) issueURL(r *http.Request, id string) (string, error) {
	if h.shareTTL == 0 {
		return h.base(r) + issuePath + url.PathEscape(id), nil
	}
	signed, err := h.shareSigner.Sign(signedIssuePath+url.PathEscape(id), h.now().Add(h.shareTTL))
	if err != nil {
		return "", err
	}
	return h.base(r) + signed, nil
}

// base returns the externally visible address links are rooted at.
func (h *web) base(r *http.Request) string {
	if !h.baseURL.IsZero() {
		return h.baseURL.String()
	}
	return rawhttp.Absolute(r, "")
}
