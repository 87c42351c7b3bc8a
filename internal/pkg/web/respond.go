package web

import (
	"net/http"

	"github.com/ferdiebergado/hrkit/internal/pkg/message"
)

func RespondOK[T any](w http.ResponseWriter, msg *string, data *T) {
	OK(w, http.StatusOK, msg, data)
}

func RespondCreated[T any](w http.ResponseWriter, msg *string, data *T) {
	OK(w, http.StatusCreated, msg, data)
}

func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func RespondBadRequest(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusBadRequest, reason, msg, errs)
}

func RespondUnauthorized(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnauthorized, reason, msg, errs)
}

func RespondForbidden(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusForbidden, reason, msg, errs)
}

func RespondNotFound(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusNotFound, reason, msg, errs)
}

func RespondNotAcceptable(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusNotAcceptable, reason, msg, errs)
}

func RespondConflict(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusConflict, reason, msg, errs)
}

func RespondPreconditionFailed(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusPreconditionFailed, reason, msg, errs)
}

func RespondPreconditionRequired(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusPreconditionRequired, reason, msg, errs)
}

func RespondRequestEntityTooLarge(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusRequestEntityTooLarge, reason, msg, errs)
}

func RespondUnprocessableEntity(w http.ResponseWriter, reason error, msg string, errs map[string]string) {
	Fail(w, http.StatusUnprocessableEntity, reason, msg, errs)
}

func RespondInternalServerError(w http.ResponseWriter, reason error) {
	Fail(w, http.StatusInternalServerError, reason, message.ServerError, nil)
}
