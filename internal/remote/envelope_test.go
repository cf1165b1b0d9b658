package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCreateResult(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantID string
		found  bool
	}{
		{"top level string id", `{"id":"p-1","name":"Shop"}`, "p-1", true},
		{"top level numeric id", `{"id":42}`, "42", true},
		{"data envelope", `{"status":"SUCCESS","data":{"id":"s-9"}}`, "s-9", true},
		{"success without id", `{"status":"SUCCESS","message":"created"}`, "", false},
		{"lowercase success", `{"status":"success"}`, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := DecodeCreateResult([]byte(tt.body))
			require.NoError(t, err)
			id, ok := res.ID()
			assert.Equal(t, tt.found, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestDecodeCreateResult_Unrecognised(t *testing.T) {
	_, err := DecodeCreateResult([]byte(`{"status":"FAILED"}`))
	assert.ErrorContains(t, err, "unrecognised create response")

	_, err = DecodeCreateResult([]byte(`not json`))
	assert.Error(t, err)
}

func TestCreatedID_MissingID(t *testing.T) {
	_, err := createdID([]byte(`{"status":"SUCCESS"}`))
	assert.ErrorIs(t, err, ErrMissingCreatedID)
}

func TestDecodeList_BareAndEnveloped(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	bare, err := decodeList[item]([]byte(`[{"name":"a"},{"name":"b"}]`))
	require.NoError(t, err)
	wrapped, err := decodeList[item]([]byte(`{"status":"SUCCESS","data":[{"name":"a"},{"name":"b"}]}`))
	require.NoError(t, err)
	assert.Equal(t, bare, wrapped)
	assert.Len(t, bare, 2)

	empty, err := decodeList[item]([]byte(`  `))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeOne_BareAndEnveloped(t *testing.T) {
	type item struct {
		Name string `json:"name"`
	}
	a, err := decodeOne[item]([]byte(`{"name":"x"}`))
	require.NoError(t, err)
	b, err := decodeOne[item]([]byte(`{"data":{"name":"x"}}`))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
