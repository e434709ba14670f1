package interfaces

import (
	"context"
	"io"
	"net/http"

	"go-offline-gateway/internal/models"
)

//go:generate mockgen -package=mock -source=fetcher.go -destination=mock/fetcher.go

// Fetcher performs origin fetches on behalf of the worker.
type Fetcher interface {
	// Fetch requests path from the origin and captures the full response.
	// The returned error covers transport failures only; HTTP error statuses
	// come back as a captured response. body may be nil.
	Fetch(ctx context.Context, method, path string, header http.Header, body io.Reader) (*models.FetchResult, error)
}
