package httpapi

import (
	"errors"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/fightsync/fightsync/internal/usecase"
)

const (
	apiVersion  = "1.0"
	errorDomain = "fightsync"
)

type responseEnvelope struct {
	APIVersion string     `json:"apiVersion"`
	Data       any        `json:"data,omitempty"`
	Error      *errorBody `json:"error,omitempty"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
	Domain  string `json:"domain"`
}

func writeJSON(rc *fasthttp.RequestCtx, status int, payload any) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if err := sonic.ConfigDefault.NewEncoder(buf).Encode(payload); err != nil {
		rc.SetStatusCode(fasthttp.StatusInternalServerError)
		return
	}

	rc.SetContentType("application/json")
	rc.SetStatusCode(status)
	rc.SetBody(buf.Bytes())
}

func writeSuccess(rc *fasthttp.RequestCtx, status int, data any) {
	writeJSON(rc, status, responseEnvelope{APIVersion: apiVersion, Data: data})
}

func writeError(rc *fasthttp.RequestCtx, err error) {
	status, reason := mapError(err)

	writeJSON(rc, status, responseEnvelope{
		APIVersion: apiVersion,
		Error: &errorBody{
			Code:    status,
			Message: err.Error(),
			Status:  reason,
			Domain:  errorDomain,
		},
	})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		return fasthttp.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, usecase.ErrNotFound):
		return fasthttp.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, usecase.ErrDependencyUnavailable):
		return fasthttp.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return fasthttp.StatusInternalServerError, "INTERNAL"
	}
}
