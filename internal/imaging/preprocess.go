// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CropSense Contributors

// Package imaging converts arbitrary crop photos into the fixed-size
// normalized pixel array the scoring backends consume.
package imaging

import (
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"io"

	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WEBP decoder

	cserr "github.com/cropsense-dev/cropsense/pkg/errors"
)

// Size is the side length of the normalized square array.
const Size = 224

// Channels is the number of color channels after normalization (RGB).
const Channels = 3

// Array is the normalized pixel representation: Size rows of Size
// columns, each holding RGB channel values scaled to [0, 1].
type Array [][][Channels]float32

// Decode reads and decodes an image in any registered encoding
// (JPEG, PNG, WEBP).
func Decode(r io.Reader) (image.Image, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, cserr.Wrap(err, cserr.CodeImageDecodeInvalid, "decoding image")
	}
	_ = format
	return img, nil
}

// Normalize converts img to 3-channel RGB, resizes it to Size×Size, and
// scales channel values to [0, 1]. The result is deterministic: the same
// input bytes always produce the same array.
func Normalize(img image.Image) (Array, error) {
	if img == nil {
		return nil, cserr.New(cserr.CodeImageConvertInvalid, "nil image")
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, cserr.Errorf(cserr.CodeImageConvertInvalid, "empty image bounds %v", bounds)
	}

	// Drawing onto an RGBA target both converts the color space and
	// drops any alpha/palette information in one pass.
	dst := image.NewRGBA(image.Rect(0, 0, Size, Size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Src, nil)

	arr := make(Array, Size)
	for y := 0; y < Size; y++ {
		row := make([][Channels]float32, Size)
		for x := 0; x < Size; x++ {
			off := dst.PixOffset(x, y)
			row[x] = [Channels]float32{
				float32(dst.Pix[off]) / 255.0,
				float32(dst.Pix[off+1]) / 255.0,
				float32(dst.Pix[off+2]) / 255.0,
			}
		}
		arr[y] = row
	}
	return arr, nil
}
