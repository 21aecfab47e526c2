package controllers

import (
	"errors"
	"net/http"

	"github.com/lintang-b-s/geo-analysis/pkg"

	"go.uber.org/zap"
)

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (api *analysisAPI) logError(r *http.Request, err error) {
	api.log.Error("request failed", zap.Error(err),
		zap.String("method", r.Method), zap.String("url", r.URL.String()))
}

func (api *analysisAPI) errorResponse(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var resp errorResponse
	resp.Error.Code = code
	resp.Error.Message = message

	if err := api.writeResponse(w, r, status, envelope{"error": resp.Error}, nil); err != nil {
		api.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (api *analysisAPI) BadRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusBadRequest, "bad_request", err.Error())
}

func (api *analysisAPI) NotFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusNotFound, "not_found", err.Error())
}

func (api *analysisAPI) ConflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.errorResponse(w, r, http.StatusConflict, "conflict", err.Error())
}

func (api *analysisAPI) ServerErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	api.logError(r, err)
	api.errorResponse(w, r, http.StatusInternalServerError, "internal_server_error", pkg.MessageInternalServerError)
}

// serviceErrorResponse picks the response from the code carried by a use-case error.
func (api *analysisAPI) serviceErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	switch code := pkg.ErrorCode(err); {
	case errors.Is(code, pkg.ErrBadParamInput):
		api.BadRequestResponse(w, r, err)
	case errors.Is(code, pkg.ErrNotFound):
		api.NotFoundResponse(w, r, err)
	case errors.Is(code, pkg.ErrConflict):
		api.ConflictResponse(w, r, err)
	default:
		api.ServerErrorResponse(w, r, err)
	}
}
