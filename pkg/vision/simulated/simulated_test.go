package simulated_test

import (
	"SmartVision/pkg/vision"
	"SmartVision/pkg/vision/simulated"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeFacesIsDeterministic(t *testing.T) {
	p := simulated.New()
	image := []byte("the same bytes every time")

	first, firstErr := p.AnalyzeFaces(context.Background(), image)
	second, secondErr := p.AnalyzeFaces(context.Background(), image)

	assert.Equal(t, firstErr, secondErr)
	assert.Equal(t, first, second)
}

func TestAnalyzeFacesOutputBounds(t *testing.T) {
	p := simulated.New()

	sawFaces := false
	sawNoFace := false

	for i := 0; i < 50; i++ {
		image := []byte(fmt.Sprintf("input-%d", i))

		result, err := p.AnalyzeFaces(context.Background(), image)
		if err != nil {
			require.True(t, errors.Is(err, vision.ErrNoFace))
			sawNoFace = true
			continue
		}

		sawFaces = true
		require.NotEmpty(t, result.Faces)
		assert.LessOrEqual(t, len(result.Faces), 2)

		for _, face := range result.Faces {
			assert.GreaterOrEqual(t, face.Age, 20)
			assert.LessOrEqual(t, face.Age, 65)
			assert.Contains(t, []string{"Male", "Female"}, face.Gender)
			assert.GreaterOrEqual(t, face.Confidence, 0.70)
			assert.LessOrEqual(t, face.Confidence, 0.95)
		}
	}

	// Both outcomes should show up over 50 distinct inputs.
	assert.True(t, sawFaces)
	assert.True(t, sawNoFace)
}

func TestClassifyObjectsRankedByConfidence(t *testing.T) {
	p := simulated.New()

	for i := 0; i < 50; i++ {
		image := []byte(fmt.Sprintf("scene-%d", i))

		result, err := p.ClassifyObjects(context.Background(), image)
		require.NoError(t, err)
		require.Len(t, result.Predictions, 3)

		top := result.Predictions[0]
		assert.NotEmpty(t, top.Label)
		assert.GreaterOrEqual(t, top.Confidence, 0.70)
		assert.LessOrEqual(t, top.Confidence, 0.95)

		for j := 1; j < len(result.Predictions); j++ {
			assert.LessOrEqual(t, result.Predictions[j].Confidence, result.Predictions[j-1].Confidence)
		}
	}
}

func TestScanFrameIsDeterministic(t *testing.T) {
	p := simulated.New()
	frame := []byte("webcam frame")

	first, err := p.ScanFrame(frame)
	require.NoError(t, err)
	second, err := p.ScanFrame(frame)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
