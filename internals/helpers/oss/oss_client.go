// internals/helpers/oss/oss_client.go
package helper

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/configs"
	"trainingku_backend/internals/constants"
)

// batas ukuran upload (guard ringan di service)
const maxUploadSize = int64(5 * 1024 * 1024)

var ErrStorageNotConfigured = fiber.NewError(fiber.StatusServiceUnavailable, "Object storage belum dikonfigurasi")

// StoredObject hasil upload.
type StoredObject struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"content_type"`
	Name        string `json:"name"`
	Type        string `json:"type"` // image|audio|pdf|document|presentation|file
}

// BlobService facade upload/hapus yang seragam untuk service & controller.
type BlobService interface {
	UploadAttachment(ctx context.Context, dir string, fh *multipart.FileHeader) (StoredObject, error)
	PutBytes(ctx context.Context, dir, filename string, data []byte, contentType string) (StoredObject, error)
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

/* =======================================================================
   OSS Service (Aliyun)
======================================================================= */

type OSSService struct {
	Bucket     *oss.Bucket
	Endpoint   string
	BucketName string
	Prefix     string
	PublicBase string
	WebP       WebPOptions
}

// NewOSSServiceFromConfig. Mengembalikan ErrStorageNotConfigured bila ENV OSS kosong.
func NewOSSServiceFromConfig(cfg configs.AppConfig) (*OSSService, error) {
	if cfg.OSSEndpoint == "" || cfg.OSSAccessKey == "" || cfg.OSSSecretKey == "" || cfg.OSSBucket == "" {
		return nil, ErrStorageNotConfigured
	}

	var opts []oss.ClientOption
	if sts := configs.GetEnv("ALI_OSS_SECURITY_TOKEN"); sts != "" {
		opts = append(opts, oss.SecurityToken(sts))
	}
	client, err := oss.New(cfg.OSSEndpoint, cfg.OSSAccessKey, cfg.OSSSecretKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("oss.New: %w", err)
	}
	bkt, err := client.Bucket(cfg.OSSBucket)
	if err != nil {
		return nil, fmt.Errorf("client.Bucket: %w", err)
	}

	// Verifikasi ringan lokasi bucket
	if loc, err := client.GetBucketLocation(cfg.OSSBucket); err != nil {
		var se oss.ServiceError
		if errors.As(err, &se) && se.StatusCode == http.StatusForbidden {
			log.Printf("[OSS] warn: skip location check (bucket=%s): %s", cfg.OSSBucket, se.Code)
		} else {
			return nil, fmt.Errorf("verify bucket: %w", err)
		}
	} else {
		log.Printf("[OSS] bucket %s location: %s", cfg.OSSBucket, loc)
	}

	return &OSSService{
		Bucket:     bkt,
		Endpoint:   cfg.OSSEndpoint,
		BucketName: cfg.OSSBucket,
		Prefix:     strings.Trim(cfg.OSSPrefix, "/"),
		PublicBase: configs.GetEnv("ALI_OSS_PUBLIC_BASE"),
		WebP:       DefaultWebPOptions(),
	}, nil
}

// UploadAttachment: gambar di-recompress ke webp, file lain diupload apa adanya.
func (s *OSSService) UploadAttachment(ctx context.Context, dir string, fh *multipart.FileHeader) (StoredObject, error) {
	if fh == nil {
		return StoredObject{}, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if fh.Size > maxUploadSize {
		return StoredObject{}, fiber.NewError(fiber.StatusRequestEntityTooLarge, fmt.Sprintf("Ukuran file maksimal %d MB", maxUploadSize>>20))
	}

	src, err := fh.Open()
	if err != nil {
		return StoredObject{}, fmt.Errorf("open file: %w", err)
	}
	defer src.Close()

	all, err := io.ReadAll(src)
	if err != nil {
		return StoredObject{}, fmt.Errorf("read file: %w", err)
	}

	name := fh.Filename
	if constants.DetectAttachmentType(name) == constants.AttachmentImage {
		webpData, err := ConvertToWebP(all, name, s.WebP)
		if err != nil {
			if errors.Is(err, ErrUnsupportedImage) {
				return StoredObject{}, fiber.NewError(fiber.StatusUnsupportedMediaType, "Format gambar tidak didukung (pakai jpg/png/webp)")
			}
			return StoredObject{}, err
		}
		name = strings.TrimSuffix(name, filepath.Ext(name)) + ".webp"
		return s.PutBytes(ctx, dir, name, webpData, "image/webp")
	}

	return s.PutBytes(ctx, dir, name, all, detectContentType(all, name))
}

// PutBytes upload []byte ke <prefix>/<dir>/<slug>_<ts>_<rand><ext>.
func (s *OSSService) PutBytes(ctx context.Context, dir, filename string, data []byte, contentType string) (StoredObject, error) {
	key := s.buildObjectKey(dir, filename)
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err := s.Bucket.PutObject(key, bytes.NewReader(data),
		oss.WithContext(ctx),
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
		oss.CacheControl("public, max-age=31536000, immutable"),
	)
	if err != nil {
		return StoredObject{}, fmt.Errorf("oss put %s: %w", key, err)
	}

	return StoredObject{
		URL:         s.PublicURL(key),
		Key:         key,
		ContentType: contentType,
		Name:        filename,
		Type:        constants.DetectAttachmentType(filename),
	}, nil
}

func (s *OSSService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := s.keyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	if err := s.Bucket.DeleteObject(key, oss.WithContext(ctx)); err != nil && !isNotFound(err) {
		return err
	}
	return nil
}

/* =======================================================================
   Public URL & Key utils
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if key == "" {
		return ""
	}
	if s.PublicBase != "" {
		return strings.TrimRight(s.PublicBase, "/") + "/" + key
	}
	end := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, end, key)
}

func (s *OSSService) keyFromPublicURL(publicURL string) (string, error) {
	if publicURL == "" {
		return "", fmt.Errorf("empty url")
	}
	if s.PublicBase != "" {
		base := strings.TrimRight(s.PublicBase, "/") + "/"
		if strings.HasPrefix(publicURL, base) {
			return strings.TrimPrefix(publicURL, base), nil
		}
	}
	u := publicURL
	if i := strings.Index(u, "://"); i >= 0 {
		u = u[i+3:]
	}
	if i := strings.Index(u, "/"); i >= 0 {
		return u[i+1:], nil
	}
	return "", fmt.Errorf("cannot extract key from url: %s", publicURL)
}

func (s *OSSService) buildObjectKey(dir, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	base := strings.TrimSuffix(filename, filepath.Ext(filename))

	parts := make([]string, 0, 3)
	if s.Prefix != "" {
		parts = append(parts, s.Prefix)
	}
	for _, p := range strings.Split(strings.Trim(dir, "/"), "/") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, slugify(p))
		}
	}
	ts := time.Now().Format("20060102_150405")
	parts = append(parts, fmt.Sprintf("%s_%s_%s%s", slugify(base), ts, randHex(3), ext))
	return strings.Join(parts, "/")
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	s = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			return r
		}
		return -1
	}, s)
	if s == "" {
		return "file"
	}
	return s
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// contentType dari ekstensi, fallback sniff 512B
func detectContentType(data []byte, filename string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename)))
	if ct == "" || ct == "application/octet-stream" {
		head := data
		if len(head) > 512 {
			head = head[:512]
		}
		ct = http.DetectContentType(head)
	}
	return ct
}

func isNotFound(err error) bool {
	var se oss.ServiceError
	return errors.As(err, &se) && se.StatusCode == http.StatusNotFound
}
