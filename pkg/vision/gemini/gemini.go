package gemini

import (
	"encoding/json"
	"errors"
	"os"
	"strings"

	"SmartVision/pkg/vision"
	"github.com/google/generative-ai-go/genai"
	"golang.org/x/net/context"
	"google.golang.org/api/option"
)

// Provider delegates both pipelines to the Gemini vision model. Each call
// sends the image with a strict-JSON prompt and parses the reply.
type Provider struct {
	modelName string
	client    *genai.Client
}

func New() (*Provider, error) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	modelName := os.Getenv("GEMINI_MODEL_NAME")
	if modelName == "" {
		modelName = "gemini-pro-vision"
	}

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &Provider{
		modelName: modelName,
		client:    client,
	}, nil
}

func (p *Provider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

func (p *Provider) analyze(ctx context.Context, imageData []byte, prompt string) (string, error) {
	model := p.client.GenerativeModel(p.modelName)

	img := genai.ImageData("image/jpeg", imageData)
	res, err := model.GenerateContent(ctx, genai.Text(prompt), img)
	if err != nil {
		return "", err
	}

	if len(res.Candidates) == 0 || len(res.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("no response from Gemini API")
	}

	text, ok := res.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.New("unexpected response format from Gemini API")
	}

	return string(text), nil
}

const facePrompt = `
Analyze every human face in this image and respond in JSON.
Desired output format:
{
	"faces": [
		{
			"box": {"x": 10, "y": 20, "w": 120, "h": 140},
			"age": 34,
			"gender": "Male",
			"confidence": 0.92
		}
	]
}
Coordinates are pixels in the original image, gender is "Male" or "Female",
confidence is between 0 and 1. If there is no face, respond {"faces": []}.
Respond with ONLY the JSON, no additional text.
`

const objectPrompt = `
Classify the main objects visible in this image and respond in JSON.
Desired output format:
{
	"predictions": [
		{"label": "golden retriever", "confidence": 0.87},
		{"label": "tennis ball", "confidence": 0.42}
	]
}
List at most 3 predictions ordered by confidence, confidence between 0 and 1.
Respond with ONLY the JSON, no additional text.
`

func (p *Provider) AnalyzeFaces(ctx context.Context, imageData []byte) (vision.FaceResult, error) {
	raw, err := p.analyze(ctx, imageData, facePrompt)
	if err != nil {
		return vision.FaceResult{}, err
	}

	var parsed struct {
		Faces []struct {
			Box        vision.Box `json:"box"`
			Age        int        `json:"age"`
			Gender     string     `json:"gender"`
			Confidence float64    `json:"confidence"`
		} `json:"faces"`
	}
	if err := unmarshalResponse(raw, &parsed); err != nil {
		return vision.FaceResult{}, err
	}

	if len(parsed.Faces) == 0 {
		return vision.FaceResult{}, vision.ErrNoFace
	}

	faces := make([]vision.Face, 0, len(parsed.Faces))
	for i, f := range parsed.Faces {
		faces = append(faces, vision.Face{
			FaceID:     i + 1,
			Box:        f.Box,
			Age:        f.Age,
			Gender:     f.Gender,
			Confidence: clampConfidence(f.Confidence),
		})
	}

	return vision.FaceResult{Faces: faces}, nil
}

func (p *Provider) ClassifyObjects(ctx context.Context, imageData []byte) (vision.ObjectResult, error) {
	raw, err := p.analyze(ctx, imageData, objectPrompt)
	if err != nil {
		return vision.ObjectResult{}, err
	}

	var parsed struct {
		Predictions []vision.Prediction `json:"predictions"`
	}
	if err := unmarshalResponse(raw, &parsed); err != nil {
		return vision.ObjectResult{}, err
	}

	if len(parsed.Predictions) == 0 {
		return vision.ObjectResult{}, vision.ErrNoDetection
	}

	for i := range parsed.Predictions {
		parsed.Predictions[i].Confidence = clampConfidence(parsed.Predictions[i].Confidence)
	}

	return vision.ObjectResult{Predictions: parsed.Predictions}, nil
}

// unmarshalResponse cuts the first JSON object out of the model reply; the
// model occasionally wraps it in prose or markdown fences despite the prompt.
func unmarshalResponse(response string, dst interface{}) error {
	jsonStart := strings.Index(response, "{")
	jsonEnd := strings.LastIndex(response, "}")

	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return errors.New("cannot find valid JSON in response")
	}

	return json.Unmarshal([]byte(response[jsonStart:jsonEnd+1]), dst)
}

func clampConfidence(c float64) float64 {
	if c < 0 {
		return 0
	}
	if c > 1 {
		return 1
	}
	return c
}
