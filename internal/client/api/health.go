package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Health returns the raw health envelope; it is not normalized.
func (g *Gateway) Health(ctx context.Context) (Health, error) {
	raw, err := g.DoRaw(ctx, http.MethodGet, PathHealth, nil)
	if err != nil {
		return Health{}, err
	}
	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return Health{}, &Error{Kind: ErrBadResponse, Method: http.MethodGet, Path: PathHealth, Cause: err}
	}
	return h, nil
}
