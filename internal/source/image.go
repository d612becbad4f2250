// Copyright 2026 The Sigstore Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package source

import (
	"fmt"
	"image"
	"log/slog"
	"math"
	"os"
	"path/filepath"

	// registered for image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/sigstore/greenpass-verifier/pkg/greenpass"
	xdraw "golang.org/x/image/draw"
)

// maxScanDimension bounds the image handed to the QR detector; larger photos
// are scaled down first.
const maxScanDimension = 2048

// ImageFile is an image containing a QR code.
type ImageFile struct {
	Path string
}

func (s ImageFile) Read() ([]byte, error) {
	f, err := os.Open(filepath.Clean(s.Path))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", greenpass.ErrInputAcquisition, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding image %s: %v", greenpass.ErrInputAcquisition, s.Path, err)
	}
	bounds := img.Bounds()
	slog.Debug("decoded image", "path", s.Path, "format", format, "width", bounds.Dx(), "height", bounds.Dy())
	return DecodeQR(img)
}

// DecodeQR returns the contents of the first QR code found in img.
func DecodeQR(img image.Image) ([]byte, error) {
	img = resizeToFit(img, maxScanDimension, maxScanDimension)
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return nil, fmt.Errorf("%w: preparing image: %v", greenpass.ErrInputAcquisition, err)
	}
	hints := map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER:    true,
		gozxing.DecodeHintType_CHARACTER_SET: "UTF-8",
	}
	result, err := qrcode.NewQRCodeReader().Decode(bmp, hints)
	if err != nil {
		return nil, fmt.Errorf("%w: no QR code found: %v", greenpass.ErrInputAcquisition, err)
	}
	text := result.GetText()
	slog.Debug("decoded QR code", "size", len(text))
	return []byte(text), nil
}

// resizeToFit scales img down to fit within maxW×maxH, keeping the aspect ratio.
func resizeToFit(src image.Image, maxW, maxH int) image.Image {
	bw := src.Bounds().Dx()
	bh := src.Bounds().Dy()
	scale := math.Min(float64(maxW)/float64(bw), float64(maxH)/float64(bh))
	if scale >= 1.0 {
		return src
	}
	w := int(math.Max(1, math.Round(float64(bw)*scale)))
	h := int(math.Max(1, math.Round(float64(bh)*scale)))

	dst := image.NewGray(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	slog.Debug("scaled image for QR detection", "width", w, "height", h)
	return dst
}
