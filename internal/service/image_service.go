package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/Galomer310/ManisR-backend/internal/config"
	"github.com/Galomer310/ManisR-backend/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
)

const (
	DefaultMealImageDir   = "/tmp/manisr/uploads"
	DefaultMealImageMaxMB = 10
	MealImageMaxSize      = 1280
	MealImageJPEGQuality  = 82
	MealImageWebPQuality  = 70
)

// MealImageService validates and processes meal photos. Every accepted photo
// is re-encoded, so client bytes are never served back verbatim.
type MealImageService struct {
	uploadDir string
	maxBytes  int64
}

func NewMealImageService(cfg *config.Config) *MealImageService {
	uploadDir := DefaultMealImageDir
	if cfg != nil && cfg.UploadDir != "" {
		uploadDir = cfg.UploadDir
	}
	return &MealImageService{
		uploadDir: uploadDir,
		maxBytes:  DefaultMealImageMaxMB * 1024 * 1024,
	}
}

// Process decodes an uploaded photo, scales it down to fit the meal card
// size, and writes JPEG and WebP renditions under a content-derived name.
// It returns the URL path of the JPEG rendition.
func (s *MealImageService) Process(content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if int64(len(content)) > s.maxBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxBytes/(1024*1024)))
	}

	detected := http.DetectContentType(content)
	if !isAllowedImageMIME(detected) {
		return "", models.NewValidationError("Unsupported image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	scaled := scaleToFit(decoded, MealImageMaxSize, MealImageMaxSize)

	jpegBytes, err := encodeJPEG(scaled, MealImageJPEGQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	webpBytes, err := encodeWebP(scaled, MealImageWebPQuality)
	if err != nil {
		return "", models.NewInternalError(err)
	}

	name := contentHash(jpegBytes)
	if err := writeImageFile(filepath.Join(s.uploadDir, name+".jpg"), jpegBytes); err != nil {
		return "", models.NewInternalError(err)
	}
	if err := writeImageFile(filepath.Join(s.uploadDir, name+".webp"), webpBytes); err != nil {
		_ = os.Remove(filepath.Join(s.uploadDir, name+".jpg"))
		return "", models.NewInternalError(err)
	}

	return "/uploads/" + name + ".jpg", nil
}

func scaleToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scale := float64(maxWidth) / float64(w)
	if s := float64(maxHeight) / float64(h); s < scale {
		scale = s
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func contentHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:16])
}

func writeImageFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
