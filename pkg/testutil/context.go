package testutil

import (
	"net/http"

	id "clockgeo/pkg/domain"
	"clockgeo/pkg/requestcontext"
)

// WithUser marks req as authenticated for userID, as the JWT middleware would.
func WithUser(req *http.Request, userID id.UserID) *http.Request {
	return req.WithContext(requestcontext.WithUserID(req.Context(), userID))
}

// WithRequestID sets the request id the request-id middleware would assign.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), requestID))
}
