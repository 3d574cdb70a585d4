package broker

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseAmbientNullMeansClear(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"type":"status","ambient":null}`), &resp))
	assert.True(t, resp.AmbientPresent())
	assert.True(t, resp.AmbientIsClear())
}

func TestResponseAmbientAbsentMeansNoChange(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"type":"status"}`), &resp))
	assert.False(t, resp.AmbientPresent())
}

func TestResponseAmbientItemMeansUpdate(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"type":"status","ambient":{"id":"timer"}}`), &resp))
	assert.True(t, resp.AmbientPresent())
	assert.False(t, resp.AmbientIsClear())
}

func TestRequestWireFieldNamesAreCamelCase(t *testing.T) {
	req := Request{
		Step:     StepForm,
		Selected: &Selected{ID: "x"},
		FormData: map[string]json.RawMessage{"a": json.RawMessage(`"1"`)},
	}
	data, err := json.Marshal(req)
	require.NoError(t, err)

	var generic map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &generic))
	_, hasFormData := generic["formData"]
	assert.True(t, hasFormData, "formData must be the wire key, not form_data")
}

func TestResponseDecodesCamelCaseWireFields(t *testing.T) {
	var resp Response
	raw := `{"type":"results","navigateForward":true,"clearInput":true,"inputMode":"submit"}`
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))
	assert.True(t, resp.NavigateForward)
	assert.True(t, resp.ClearInput)
	assert.Equal(t, "submit", resp.InputMode)
}
