// file: internals/helpers/oss/webp.go
package helper

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"golang.org/x/image/draw"

	"trainingku_backend/internals/configs"
)

var ErrUnsupportedImage = fmt.Errorf("format gambar tidak didukung")

type WebPOptions struct {
	MaxW     int     // batas lebar (resize keep-aspect)
	MaxH     int     // batas tinggi
	Quality  float32 // quality awal
	TargetKB int     // 0 = encode sekali dengan Quality
	MinQ     float32 // batas bawah binary search quality
}

func DefaultWebPOptions() WebPOptions {
	return WebPOptions{
		MaxW:     configs.GetEnvInt("IMAGE_WEBP_MAX_W", 1600),
		MaxH:     configs.GetEnvInt("IMAGE_WEBP_MAX_H", 1600),
		Quality:  float32(configs.GetEnvFloat("IMAGE_WEBP_QUALITY", 80)),
		TargetKB: configs.GetEnvInt("IMAGE_WEBP_TARGET_KB", 0),
		MinQ:     float32(configs.GetEnvFloat("IMAGE_WEBP_MIN_Q", 45)),
	}
}

// ConvertToWebP: decode (jpeg/png/webp) → resize → encode webp.
func ConvertToWebP(all []byte, filename string, opt WebPOptions) ([]byte, error) {
	img, err := decodeImage(all, filename)
	if err != nil {
		return nil, err
	}
	img = downscaleIfNeeded(img, opt.MaxW, opt.MaxH)
	return encodeToWebP(img, opt)
}

func decodeImage(all []byte, filename string) (image.Image, error) {
	if len(all) == 0 {
		return nil, fmt.Errorf("empty file")
	}
	head := all
	if len(head) > 512 {
		head = head[:512]
	}

	kind := http.DetectContentType(head)
	if !strings.HasPrefix(kind, "image/") {
		// fallback by extension
		switch strings.ToLower(filepath.Ext(filename)) {
		case ".jpg", ".jpeg":
			kind = "image/jpeg"
		case ".png":
			kind = "image/png"
		case ".webp":
			kind = "image/webp"
		}
	}

	r := bytes.NewReader(all)
	switch {
	case strings.Contains(kind, "jpeg"):
		return jpeg.Decode(r)
	case strings.Contains(kind, "png"):
		return png.Decode(r)
	case strings.Contains(kind, "webp"):
		return webp.Decode(r)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, kind)
}

// Resize keep aspect, pakai CatmullRom.
func downscaleIfNeeded(src image.Image, maxW, maxH int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if (maxW <= 0 || w <= maxW) && (maxH <= 0 || h <= maxH) {
		return src
	}

	scale := 1.0
	if maxW > 0 {
		scale = math.Min(scale, float64(maxW)/float64(w))
	}
	if maxH > 0 {
		scale = math.Min(scale, float64(maxH)/float64(h))
	}
	nw := int(math.Max(1, math.Round(float64(w)*scale)))
	nh := int(math.Max(1, math.Round(float64(h)*scale)))

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

func encodeToWebP(img image.Image, opt WebPOptions) ([]byte, error) {
	encodeQ := func(q float32) ([]byte, error) {
		buf := new(bytes.Buffer)
		if err := webp.Encode(buf, img, &webp.Options{Quality: q}); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}

	q := opt.Quality
	if q <= 0 {
		q = 80
	}
	if opt.TargetKB <= 0 {
		return encodeQ(q)
	}

	// binary search quality sampai <= target
	target := opt.TargetKB * 1024
	low, high := opt.MinQ, q
	if low <= 0 || low > high {
		low = 45
	}
	var best []byte
	for i := 0; i < 7; i++ {
		mid := (low + high) / 2
		data, err := encodeQ(mid)
		if err != nil {
			return nil, err
		}
		if len(data) <= target {
			best = data
			low = mid
		} else {
			high = mid
		}
	}
	if best == nil {
		return encodeQ(opt.MinQ)
	}
	return best, nil
}
