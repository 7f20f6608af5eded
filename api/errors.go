package api

import (
	"errors"
	"net/http"

	"github.com/thisisjab/arrowjq/fault"
)

func (s *server) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var f fault.Fault
	if errors.As(err, &f) {
		switch code := f.Code(); {
		case code.IsTranslation():
			// The request was well formed but its program cannot be translated.
			s.writeError(w, r, http.StatusUnprocessableEntity, apiResponse{
				Success:  false,
				Message:  f.Message(),
				Metadata: faultMetadata(f),
			})

		case code == fault.BadInputCode:
			if md, ok := f.Metadata().(fault.FieldErrorsMetadata); ok {
				// This is a 422 error since it's related to specific field
				s.writeError(w, r, http.StatusUnprocessableEntity, apiResponse{
					Success: false,
					Message: f.Message(),
					Metadata: map[string]any{
						"fields": md,
					},
				})
			} else {
				// This is a 400 as it's a bad request with no metadata or unknown metadata
				res := apiResponse{Success: false, Message: f.Message()}
				if f.Metadata() != nil {
					res.Metadata = map[string]any{"context": f.Metadata()}
				}
				s.writeError(w, r, http.StatusBadRequest, res)
			}

		case code == fault.NotFoundCode:
			m := f.Message()
			if m == "" {
				m = "Requested resource not found."
			}

			res := apiResponse{Success: false, Message: m}

			if f.Metadata() != nil {
				res.Metadata = map[string]any{"context": f.Metadata()}
			}

			s.writeError(w, r, http.StatusNotFound, res)

		default:
			s.internalServerError(w, r, f)
		}

		return
	}

	s.internalServerError(w, r, err)
}

// faultMetadata describes a translation fault for clients: its code and,
// when known, where in the program it happened.
func faultMetadata(f fault.Fault) map[string]any {
	md := map[string]any{"code": f.Code()}
	if pos, ok := f.Metadata().(fault.PositionMetadata); ok {
		md["position"] = pos
	}
	return md
}

func (s *server) logError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("internal server error", "method", r.Method, "path", r.RequestURI, "remote-addr", r.RemoteAddr, "request_id", requestID(r.Context()), "error", err)
}

func (s *server) writeError(w http.ResponseWriter, r *http.Request, status int, response apiResponse) {
	s.writeJson(w, status, response, nil) //nolint:errcheck
}

func (s *server) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	s.logError(w, r, err)
	s.writeError(w, r, http.StatusInternalServerError, apiResponse{Success: false, Message: "Internal server error"})
}
