package onnx

import (
	"bufio"
	"fmt"
	"os"
	"runtime"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

const (
	detectorInputSize   = 640
	detectorAnchors     = 8400
	faceConfThreshold   = 0.5
	faceIoUThreshold    = 0.45
	faceCropSize        = 64
	classifierInputSize = 224
	classifierTopK      = 3
	classifierThreshold = 0.1
)

var ortInit sync.Once

type modelSession struct {
	mu      sync.Mutex
	session *ort.AdvancedSession
	input   *ort.Tensor[float32]
	output  *ort.Tensor[float32]
}

func (m *modelSession) destroy() {
	if m.session != nil {
		m.session.Destroy()
	}
	if m.input != nil {
		m.input.Destroy()
	}
	if m.output != nil {
		m.output.Destroy()
	}
}

// run copies src into the input tensor, executes the session and returns a
// copy of the output. The copy keeps callers independent of the shared tensor.
func (m *modelSession) run(src []float32) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copy(m.input.GetData(), src)
	if err := m.session.Run(); err != nil {
		return nil, fmt.Errorf("model inference: %w", err)
	}

	out := m.output.GetData()
	result := make([]float32, len(out))
	copy(result, out)
	return result, nil
}

// Provider runs the face locator, the age/gender head and the object
// classifier locally through onnxruntime.
type Provider struct {
	detector   *modelSession
	ageGender  *modelSession
	classifier *modelSession
	labels     []string
}

func New() (*Provider, error) {
	libPath := os.Getenv("ONNX_RUNTIME_LIB")
	if libPath == "" {
		return nil, fmt.Errorf("ONNX_RUNTIME_LIB not set")
	}

	var initErr error
	ortInit.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		initErr = ort.InitializeEnvironment()
	})
	if initErr != nil {
		return nil, fmt.Errorf("initialize onnxruntime: %w", initErr)
	}

	detector, err := newModelSession(
		os.Getenv("FACE_MODEL_PATH"),
		"images", "output0",
		ort.NewShape(1, 3, detectorInputSize, detectorInputSize),
		ort.NewShape(1, 5, detectorAnchors),
	)
	if err != nil {
		return nil, fmt.Errorf("face detector session: %w", err)
	}

	ageGender, err := newModelSession(
		os.Getenv("AGE_GENDER_MODEL_PATH"),
		"input", "output",
		ort.NewShape(1, 3, faceCropSize, faceCropSize),
		ort.NewShape(1, 3),
	)
	if err != nil {
		detector.destroy()
		return nil, fmt.Errorf("age/gender session: %w", err)
	}

	labels, err := loadLabels(os.Getenv("CLASSIFIER_LABELS_PATH"))
	if err != nil {
		detector.destroy()
		ageGender.destroy()
		return nil, fmt.Errorf("classifier labels: %w", err)
	}

	classifier, err := newModelSession(
		os.Getenv("CLASSIFIER_MODEL_PATH"),
		"input", "output",
		ort.NewShape(1, 3, classifierInputSize, classifierInputSize),
		ort.NewShape(1, int64(len(labels))),
	)
	if err != nil {
		detector.destroy()
		ageGender.destroy()
		return nil, fmt.Errorf("classifier session: %w", err)
	}

	return &Provider{
		detector:   detector,
		ageGender:  ageGender,
		classifier: classifier,
		labels:     labels,
	}, nil
}

func newModelSession(modelPath, inputName, outputName string, inputShape, outputShape ort.Shape) (*modelSession, error) {
	if modelPath == "" {
		return nil, fmt.Errorf("model path not set")
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("create session options: %w", err)
	}
	defer options.Destroy()

	options.SetIntraOpNumThreads(runtime.NumCPU())
	options.SetInterOpNumThreads(runtime.NumCPU())

	inputTensor, err := ort.NewEmptyTensor[float32](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(
		modelPath,
		[]string{inputName},
		[]string{outputName},
		[]ort.ArbitraryTensor{inputTensor},
		[]ort.ArbitraryTensor{outputTensor},
		options,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create session for %s: %w", modelPath, err)
	}

	return &modelSession{
		session: session,
		input:   inputTensor,
		output:  outputTensor,
	}, nil
}

func loadLabels(path string) ([]string, error) {
	if path == "" {
		return nil, fmt.Errorf("labels path not set")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var labels []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line != "" {
			labels = append(labels, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels file %s is empty", path)
	}

	return labels, nil
}

func (p *Provider) Close() {
	p.detector.destroy()
	p.ageGender.destroy()
	p.classifier.destroy()
}
