package httputil

import (
	"net/http"

	"github.com/rs/zerolog/log"
)

type errorResponse struct {
	Error string `json:"error"`
}

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	log.Error().Err(err).Msg(msg)
	WriteJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	warn(http.StatusBadRequest, msg, err)
	WriteJSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	warn(http.StatusNotFound, msg, err)
	WriteJSON(w, http.StatusNotFound, errorResponse{Error: msg})
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	warn(http.StatusConflict, msg, err)
	WriteJSON(w, http.StatusConflict, errorResponse{Error: msg})
}

func TooManyRequests(w http.ResponseWriter, msg string) {
	warn(http.StatusTooManyRequests, msg, nil)
	w.Header().Set("Retry-After", "1")
	WriteJSON(w, http.StatusTooManyRequests, errorResponse{Error: msg})
}

func warn(status int, msg string, err error) {
	event := log.Warn().Int("status", status)
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
