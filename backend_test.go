package paystream

import (
	"context"
	"encoding/json"
)

// recordingBackend captures what an operation asked for and feeds back
// a canned payload. Payloads are written in normalized (camelCase)
// form, the shape operations see after response interpretation.
type recordingBackend struct {
	method  string
	path    string
	params  Params
	payload string
	calls   int
	err     error
}

func (r *recordingBackend) call(_ context.Context, method, path string, params Params, v any) error {
	r.calls++
	r.method = method
	r.path = path
	r.params = params
	if r.err != nil {
		return r.err
	}
	if v == nil || r.payload == "" {
		return nil
	}
	return json.Unmarshal([]byte(r.payload), v)
}
