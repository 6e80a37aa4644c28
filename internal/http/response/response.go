// Package response writes the JSON envelope every endpoint answers with:
//
//	{"msg": "...", "isSuccess": true, "statusCode": 200, "payload": ...}
package response

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/HaBsawy/creiden-task/internal/apperr"
)

const (
	MsgNotAuthenticated = "Not Authenticated"
	MsgNotFound         = "Not Found"
	MsgMethodNotAllowed = "Method Not Allowed"
	MsgWentWrong        = "Something went wrong"
)

type Envelope struct {
	Msg        string `json:"msg"`
	IsSuccess  bool   `json:"isSuccess"`
	StatusCode int    `json:"statusCode"`
	Payload    any    `json:"payload"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// Make writes an envelope. Statuses below 400 are reported as successes.
func Make(w http.ResponseWriter, status int, msg string, payload any) {
	writeJSON(w, status, Envelope{
		Msg:        msg,
		IsSuccess:  status < http.StatusBadRequest,
		StatusCode: status,
		Payload:    payload,
	})
}

func OK(w http.ResponseWriter, payload any) {
	Make(w, http.StatusOK, "", payload)
}

func Created(w http.ResponseWriter, msg string, payload any) {
	Make(w, http.StatusCreated, msg, payload)
}

func Accepted(w http.ResponseWriter, msg string, payload any) {
	Make(w, http.StatusAccepted, msg, payload)
}

func NotAuthenticated(w http.ResponseWriter) {
	Make(w, http.StatusUnauthorized, MsgNotAuthenticated, nil)
}

func NotFound(w http.ResponseWriter) {
	Make(w, http.StatusNotFound, MsgNotFound, nil)
}

func MethodNotAllowed(w http.ResponseWriter) {
	Make(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed, nil)
}

func Unprocessable(w http.ResponseWriter, msg string) {
	Make(w, http.StatusUnprocessableEntity, msg, nil)
}

func WentWrong(w http.ResponseWriter) {
	Make(w, http.StatusInternalServerError, MsgWentWrong, nil)
}

// Error renders err by kind. Unexpected errors are logged through the
// request logger and never shown to the client.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		Unprocessable(w, apperr.MessageOf(err))
	case apperr.KindUnauthenticated:
		NotAuthenticated(w)
	case apperr.KindNotFound:
		NotFound(w)
	default:
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("request failed")
		WentWrong(w)
	}
}
