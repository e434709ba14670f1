package models

import (
	"net/http"
	"time"
)

// StoredResponse is a cached HTTP response. It is JSON-encoded into the
// byte-oriented store backends.
type StoredResponse struct {
	Status   int                 `json:"status"`
	Header   map[string][]string `json:"header,omitempty"`
	Body     []byte              `json:"body"`
	StoredAt int64               `json:"stored_at"`
}

// NewStoredResponse builds a StoredResponse from already-read response parts.
func NewStoredResponse(status int, header http.Header, body []byte) *StoredResponse {
	return &StoredResponse{
		Status:   status,
		Header:   header,
		Body:     body,
		StoredAt: time.Now().Unix(),
	}
}

// WriteTo replays the stored response onto a ResponseWriter.
func (sr *StoredResponse) WriteTo(w http.ResponseWriter) error {
	for key, values := range sr.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}
	w.WriteHeader(sr.Status)
	_, err := w.Write(sr.Body)
	return err
}

// FetchResult is what an origin fetch yields: the captured response plus
// whether it came back from the configured origin without being redirected
// elsewhere (the "basic" response type).
type FetchResult struct {
	Response   *StoredResponse
	SameOrigin bool
}
