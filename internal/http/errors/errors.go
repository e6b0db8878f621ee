package errors

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
)

// InternalError logs the underlying error with the request id and returns a
// generic message to the client.
func InternalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	logWith(r, "[ERROR]", message, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

// BadRequestError logs a client error and returns the given message.
func BadRequestError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	logWith(r, "[WARN]", "bad request", err)
	http.Error(w, clientMessage, http.StatusBadRequest)
}

// BadGatewayError reports a failed external collaborator call.
func BadGatewayError(w http.ResponseWriter, r *http.Request, err error, clientMessage string) {
	logWith(r, "[ERROR]", "upstream failure", err)
	http.Error(w, clientMessage, http.StatusBadGateway)
}

// LogError records an error without writing a response.
func LogError(r *http.Request, message string, err error) {
	logWith(r, "[ERROR]", message, err)
}

func logWith(r *http.Request, level, message string, err error) {
	requestID := middleware.GetReqID(r.Context())
	if requestID != "" {
		log.Printf("%s RequestID=%s: %s: %v", level, requestID, message, err)
		return
	}
	log.Printf("%s %s: %v", level, message, err)
}
