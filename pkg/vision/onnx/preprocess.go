package onnx

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

func decodeImage(data []byte) (image.Image, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// toCHW resizes the image to size x size and lays it out as a normalized
// channel-first float buffer, the layout every model here expects.
func toCHW(img image.Image, size int) []float32 {
	resized := imaging.Resize(img, size, size, imaging.Linear)

	channelSize := size * size
	buffer := make([]float32, channelSize*3)

	for y := 0; y < size; y++ {
		offset := y * size
		for x := 0; x < size; x++ {
			i := offset + x
			r, g, b, _ := resized.At(x, y).RGBA()
			buffer[i] = float32(r>>8) / 255.0
			buffer[channelSize+i] = float32(g>>8) / 255.0
			buffer[channelSize*2+i] = float32(b>>8) / 255.0
		}
	}

	return buffer
}
