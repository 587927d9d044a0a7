package http

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

//go:embed openapi.yaml
var specYAML []byte

var (
	specOnce sync.Once
	spec     *openapi3.T
	specErr  error
)

// LoadSpec parses and validates the embedded OpenAPI contract.
func LoadSpec() (*openapi3.T, error) {
	specOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(specYAML)
		if err != nil {
			specErr = fmt.Errorf("failed to load openapi spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid openapi spec: %w", err)
			return
		}
		spec = doc
	})
	return spec, specErr
}

// validateRequest checks each request against the operation chi matched.
// It must run as a route middleware so the route pattern is known.
func validateRequest(doc *openapi3.T, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rctx := chi.RouteContext(r.Context())
			pattern := rctx.RoutePattern()

			item := doc.Paths.Find(pattern)
			if item == nil {
				next.ServeHTTP(w, r)
				return
			}
			op := item.GetOperation(r.Method)
			if op == nil {
				next.ServeHTTP(w, r)
				return
			}

			params := make(map[string]string, len(rctx.URLParams.Keys))
			for i, key := range rctx.URLParams.Keys {
				params[key] = rctx.URLParams.Values[i]
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: params,
				Route: &routers.Route{
					Spec:      doc,
					Path:      pattern,
					PathItem:  item,
					Method:    r.Method,
					Operation: op,
				},
			}
			if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
				logger.Debug("request does not match contract", "path", r.URL.Path, "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadRequest)
				_, _ = fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// pathID binds the {id} path parameter.
func pathID(r *http.Request) (string, error) {
	var id string
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter id: %w", err)
	}
	return id, nil
}

// EventsParams are the query parameters of GET /events.
type EventsParams struct {
	SessionID string
	Watch     *string
}

func bindEventsParams(r *http.Request) (EventsParams, error) {
	var params EventsParams
	query := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, true, "session_id", query, &params.SessionID); err != nil {
		return params, fmt.Errorf("invalid format for parameter session_id: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "watch", query, &params.Watch); err != nil {
		return params, fmt.Errorf("invalid format for parameter watch: %w", err)
	}
	return params, nil
}
