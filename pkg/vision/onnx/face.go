package onnx

import (
	"image"
	"math"
	"sort"

	"SmartVision/pkg/vision"
	"github.com/disintegration/imaging"
	"golang.org/x/net/context"
)

type rawDetection struct {
	box        vision.Box
	confidence float64
}

func (p *Provider) AnalyzeFaces(ctx context.Context, data []byte) (vision.FaceResult, error) {
	img, err := decodeImage(data)
	if err != nil {
		return vision.FaceResult{}, err
	}

	boxes, err := p.locateFaces(img)
	if err != nil {
		return vision.FaceResult{}, err
	}
	if len(boxes) == 0 {
		return vision.FaceResult{}, vision.ErrNoFace
	}

	faces := make([]vision.Face, 0, len(boxes))
	for i, det := range boxes {
		select {
		case <-ctx.Done():
			return vision.FaceResult{}, ctx.Err()
		default:
		}

		crop := imaging.Crop(img, image.Rect(
			det.box.X, det.box.Y,
			det.box.X+det.box.W, det.box.Y+det.box.H,
		))

		age, gender, err := p.estimateAgeGender(crop)
		if err != nil {
			return vision.FaceResult{}, err
		}

		faces = append(faces, vision.Face{
			FaceID:     i + 1,
			Box:        det.box,
			Age:        age,
			Gender:     gender,
			Confidence: det.confidence,
		})
	}

	return vision.FaceResult{Faces: faces}, nil
}

func (p *Provider) ScanFrame(frame []byte) (vision.FrameVerdict, error) {
	img, err := decodeImage(frame)
	if err != nil {
		return vision.FrameVerdict{}, err
	}

	dets, err := p.locateFaces(img)
	if err != nil {
		return vision.FrameVerdict{}, err
	}
	if len(dets) == 0 {
		return vision.FrameVerdict{HasFace: false}, nil
	}

	boxes := make([]vision.Box, 0, len(dets))
	for _, d := range dets {
		boxes = append(boxes, d.box)
	}

	return vision.FrameVerdict{HasFace: true, Boxes: boxes}, nil
}

func (p *Provider) locateFaces(img image.Image) ([]rawDetection, error) {
	input := toCHW(img, detectorInputSize)

	out, err := p.detector.run(input)
	if err != nil {
		return nil, err
	}

	return parseDetections(out, img.Bounds().Dx(), img.Bounds().Dy()), nil
}

// parseDetections reads the detector output laid out as [cx, cy, w, h, conf]
// across detectorAnchors columns and maps boxes back to source coordinates.
func parseDetections(predictions []float32, originalWidth, originalHeight int) []rawDetection {
	scaleX := float64(originalWidth) / float64(detectorInputSize)
	scaleY := float64(originalHeight) / float64(detectorInputSize)

	detections := make([]rawDetection, 0, 16)
	for i := 0; i < detectorAnchors; i++ {
		conf := predictions[4*detectorAnchors+i]
		if conf < faceConfThreshold {
			continue
		}

		cx := float64(predictions[i]) * scaleX
		cy := float64(predictions[detectorAnchors+i]) * scaleY
		w := float64(predictions[2*detectorAnchors+i]) * scaleX
		h := float64(predictions[3*detectorAnchors+i]) * scaleY

		x := clamp(int(cx-w/2), 0, originalWidth-1)
		y := clamp(int(cy-h/2), 0, originalHeight-1)
		bw := clamp(int(w), 1, originalWidth-x)
		bh := clamp(int(h), 1, originalHeight-y)

		detections = append(detections, rawDetection{
			box:        vision.Box{X: x, Y: y, W: bw, H: bh},
			confidence: float64(conf),
		})
	}

	return suppressOverlaps(detections)
}

func suppressOverlaps(detections []rawDetection) []rawDetection {
	sort.Slice(detections, func(i, j int) bool {
		return detections[i].confidence > detections[j].confidence
	})

	var kept []rawDetection
	for _, det := range detections {
		overlaps := false
		for _, k := range kept {
			if iou(det.box, k.box) > faceIoUThreshold {
				overlaps = true
				break
			}
		}
		if !overlaps {
			kept = append(kept, det)
		}
	}

	return kept
}

func iou(a, b vision.Box) float64 {
	x1 := math.Max(float64(a.X), float64(b.X))
	y1 := math.Max(float64(a.Y), float64(b.Y))
	x2 := math.Min(float64(a.X+a.W), float64(b.X+b.W))
	y2 := math.Min(float64(a.Y+a.H), float64(b.Y+b.H))

	inter := math.Max(0, x2-x1) * math.Max(0, y2-y1)
	if inter == 0 {
		return 0
	}

	union := float64(a.W*a.H) + float64(b.W*b.H) - inter
	return inter / union
}

// estimateAgeGender runs the age/gender head on a face crop. The head emits
// [age/100, male logit, female logit].
func (p *Provider) estimateAgeGender(crop image.Image) (int, string, error) {
	input := toCHW(crop, faceCropSize)

	out, err := p.ageGender.run(input)
	if err != nil {
		return 0, "", err
	}

	age := int(math.Round(float64(out[0]) * 100))
	if age < 1 {
		age = 1
	}

	gender := "Male"
	if out[2] > out[1] {
		gender = "Female"
	}

	return age, gender, nil
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
