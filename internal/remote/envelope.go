package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingCreatedID is returned when a create call succeeded but the
// response carried no id to continue with.
var ErrMissingCreatedID = errors.New("create response carried no id")

// CreateResult is what a create endpoint told us: either the new id, or
// only that the call succeeded and the caller has to look the record up.
type CreateResult struct {
	id string
}

func Found(id string) CreateResult { return CreateResult{id: id} }

func NeedsRefetch() CreateResult { return CreateResult{} }

// ID returns the created id and whether the response carried one.
func (r CreateResult) ID() (string, bool) { return r.id, r.id != "" }

type createEnvelope struct {
	ID     json.RawMessage `json:"id"`
	Status string          `json:"status"`
	Data   *struct {
		ID json.RawMessage `json:"id"`
	} `json:"data"`
}

// DecodeCreateResult understands {"id":...}, {"data":{"id":...}} and a bare
// {"status":"SUCCESS"}. Numeric ids are rendered as strings.
func DecodeCreateResult(body []byte) (CreateResult, error) {
	var env createEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return CreateResult{}, fmt.Errorf("decoding create response: %w", err)
	}
	if id := rawID(env.ID); id != "" {
		return Found(id), nil
	}
	if env.Data != nil {
		if id := rawID(env.Data.ID); id != "" {
			return Found(id), nil
		}
	}
	if strings.EqualFold(env.Status, "SUCCESS") {
		return NeedsRefetch(), nil
	}
	return CreateResult{}, fmt.Errorf("unrecognised create response: %s", truncate(body, 200))
}

// createdID collapses a CreateResult for callers that cannot refetch.
func createdID(body []byte) (string, error) {
	res, err := DecodeCreateResult(body)
	if err != nil {
		return "", err
	}
	id, ok := res.ID()
	if !ok {
		return "", ErrMissingCreatedID
	}
	return id, nil
}

func rawID(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// decodeList accepts either a bare array or {"data":[...]}.
func decodeList[T any](body []byte) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var items []T
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decoding list: %w", err)
		}
		return items, nil
	}
	var env struct {
		Data []T `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decoding list: %w", err)
	}
	return env.Data, nil
}

// decodeOne accepts either the object itself or {"data":{...}}.
func decodeOne[T any](body []byte) (*T, error) {
	var env struct {
		Data *T `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return env.Data, nil
	}
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &v, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
