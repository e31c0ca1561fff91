package simulated

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"SmartVision/pkg/vision"
	"golang.org/x/net/context"
)

// Provider fabricates plausible detection output without running any model.
// Results are deterministic for identical input bytes so the demo deployment
// behaves reproducibly.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

var objectLabels = []string{
	"laptop", "coffee mug", "backpack", "bicycle", "wristwatch",
	"desk lamp", "potted plant", "keyboard", "water bottle", "sneaker",
	"bookcase", "umbrella", "sunglasses", "guitar", "teddy bear",
}

var genders = []string{"Male", "Female"}

func seedFor(image []byte) int64 {
	h := fnv.New64a()
	h.Write(image)
	return int64(h.Sum64())
}

func (p *Provider) AnalyzeFaces(_ context.Context, image []byte) (vision.FaceResult, error) {
	rng := rand.New(rand.NewSource(seedFor(image)))

	// Roughly a third of inputs carry no face so the object fallback gets exercised.
	if rng.Intn(3) == 0 {
		return vision.FaceResult{}, vision.ErrNoFace
	}

	count := 1 + rng.Intn(2)
	faces := make([]vision.Face, 0, count)
	for i := 0; i < count; i++ {
		faces = append(faces, vision.Face{
			FaceID: i + 1,
			Box: vision.Box{
				X: 40 + rng.Intn(200),
				Y: 40 + rng.Intn(120),
				W: 80 + rng.Intn(80),
				H: 80 + rng.Intn(80),
			},
			Age:        20 + rng.Intn(46),
			Gender:     genders[rng.Intn(len(genders))],
			Confidence: 0.70 + rng.Float64()*0.25,
		})
	}

	return vision.FaceResult{Faces: faces}, nil
}

func (p *Provider) ClassifyObjects(_ context.Context, image []byte) (vision.ObjectResult, error) {
	rng := rand.New(rand.NewSource(seedFor(image) ^ 0x5f3759df))

	first := rng.Intn(len(objectLabels))
	top := vision.Prediction{
		Label:      objectLabels[first],
		Confidence: 0.70 + rng.Float64()*0.25,
	}

	preds := []vision.Prediction{top}
	for i := 1; i < 3; i++ {
		preds = append(preds, vision.Prediction{
			Label:      objectLabels[(first+i*3+rng.Intn(2))%len(objectLabels)],
			Confidence: top.Confidence * (0.3 + rng.Float64()*0.3),
		})
	}

	// Real classifiers return a ranked list; the fabricated one must too.
	sort.SliceStable(preds, func(i, j int) bool {
		return preds[i].Confidence > preds[j].Confidence
	})

	return vision.ObjectResult{Predictions: preds}, nil
}

func (p *Provider) ScanFrame(frame []byte) (vision.FrameVerdict, error) {
	rng := rand.New(rand.NewSource(seedFor(frame)))

	if rng.Intn(3) == 0 {
		return vision.FrameVerdict{HasFace: false}, nil
	}

	return vision.FrameVerdict{
		HasFace: true,
		Boxes: []vision.Box{{
			X: 60 + rng.Intn(160),
			Y: 40 + rng.Intn(100),
			W: 100 + rng.Intn(60),
			H: 100 + rng.Intn(60),
		}},
	}, nil
}
