package api

import (
	"fmt"
	"net/http"

	"github.com/thisisjab/arrowjq/engine"
	"github.com/thisisjab/arrowjq/fault"
	"github.com/thisisjab/arrowjq/translator"
)

const maxBatchSize = 1000

type translateRequest struct {
	Source string `json:"source"`
}

// translateHandler translates a single program.
//
//	POST /api/translate {"source": "x => x.a"}
//	200 {"success": true, "data": {"filter": ".a"}}
func (s *server) translateHandler(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if s.returnOnError(w, r, s.readJson(w, r, &req)) {
		return
	}

	filter, err := translator.Translate(req.Source)
	if s.returnOnError(w, r, err) {
		return
	}

	s.writeJson( // nolint:errcheck
		w,
		http.StatusOK,
		apiResponse{
			Success: true,
			Data:    map[string]any{"filter": filter},
		},
		nil,
	)
}

type translateBatchRequest struct {
	Sources []string `json:"sources"`
}

type batchItem struct {
	Index   int            `json:"index"`
	Filter  string         `json:"filter,omitempty"`
	Message string         `json:"message,omitempty"`
	Error   map[string]any `json:"error,omitempty"`
}

// translateBatchHandler translates many programs at once on the batch
// engine. Failed items are reported inline, so the response is 200 as long
// as the request itself is valid.
func (s *server) translateBatchHandler(w http.ResponseWriter, r *http.Request) {
	var req translateBatchRequest
	if s.returnOnError(w, r, s.readJson(w, r, &req)) {
		return
	}

	if len(req.Sources) == 0 || len(req.Sources) > maxBatchSize {
		s.handleError(w, r, fault.New(fault.BadInputCode, "Body contains invalid fields.").WithMetadata(fault.FieldErrorsMetadata{
			"sources": []string{fmt.Sprintf("Must contain between 1 and %d programs.", maxBatchSize)},
		}))
		return
	}

	results, err := s.engine.Run(r.Context(), engine.NewJobs(requestID(r.Context()), req.Sources))
	if s.returnOnError(w, r, err) {
		return
	}

	items := make([]batchItem, len(results))
	for i, res := range results {
		item := batchItem{Index: res.Job.Line - 1, Filter: res.Filter}
		if res.Err != nil {
			item.Message = res.Err.Error()
			item.Error = map[string]any{"code": fault.CodeOf(res.Err)}
			if pos, ok := fault.PositionOf(res.Err); ok {
				item.Error["position"] = pos
			}
		}
		items[i] = item
	}

	s.writeJson( // nolint:errcheck
		w,
		http.StatusOK,
		apiResponse{
			Success: true,
			Data: map[string]any{
				"results": items,
				"failed":  engine.Failed(results),
			},
		},
		nil,
	)
}
