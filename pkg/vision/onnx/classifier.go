package onnx

import (
	"math"
	"sort"

	"SmartVision/pkg/vision"
	"golang.org/x/net/context"
)

func (p *Provider) ClassifyObjects(ctx context.Context, data []byte) (vision.ObjectResult, error) {
	img, err := decodeImage(data)
	if err != nil {
		return vision.ObjectResult{}, err
	}

	select {
	case <-ctx.Done():
		return vision.ObjectResult{}, ctx.Err()
	default:
	}

	input := toCHW(img, classifierInputSize)

	out, err := p.classifier.run(input)
	if err != nil {
		return vision.ObjectResult{}, err
	}

	probs := softmax(out)

	type scored struct {
		index int
		prob  float64
	}
	ranked := make([]scored, len(probs))
	for i, pr := range probs {
		ranked[i] = scored{index: i, prob: pr}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].prob > ranked[j].prob })

	var predictions []vision.Prediction
	for _, s := range ranked[:min(classifierTopK, len(ranked))] {
		if s.prob < classifierThreshold {
			break
		}
		predictions = append(predictions, vision.Prediction{
			Label:      p.labels[s.index],
			Confidence: s.prob,
		})
	}

	if len(predictions) == 0 {
		return vision.ObjectResult{}, vision.ErrNoDetection
	}

	return vision.ObjectResult{Predictions: predictions}, nil
}

func softmax(logits []float32) []float64 {
	maxLogit := float64(logits[0])
	for _, l := range logits[1:] {
		if float64(l) > maxLogit {
			maxLogit = float64(l)
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		probs[i] = math.Exp(float64(l) - maxLogit)
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}

	return probs
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
