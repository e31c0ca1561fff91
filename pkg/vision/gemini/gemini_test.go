package gemini

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalResponseStripsProse(t *testing.T) {
	var dst struct {
		Faces []struct {
			Age    int    `json:"age"`
			Gender string `json:"gender"`
		} `json:"faces"`
	}

	response := "Here is the analysis:\n```json\n{\"faces\":[{\"age\":31,\"gender\":\"Female\"}]}\n```"
	require.NoError(t, unmarshalResponse(response, &dst))
	require.Len(t, dst.Faces, 1)
	assert.Equal(t, 31, dst.Faces[0].Age)
	assert.Equal(t, "Female", dst.Faces[0].Gender)
}

func TestUnmarshalResponseNoJSON(t *testing.T) {
	var dst map[string]interface{}

	assert.Error(t, unmarshalResponse("no object here", &dst))
	assert.Error(t, unmarshalResponse("} backwards {", &dst))
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 0.0, clampConfidence(-0.5))
	assert.Equal(t, 1.0, clampConfidence(1.7))
	assert.Equal(t, 0.42, clampConfidence(0.42))
}
