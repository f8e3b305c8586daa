package helper

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"sync"

	"github.com/gofiber/fiber/v2"

	"trainingku_backend/internals/constants"
)

// MemoryBlobService menyimpan objek di memori. Dipakai test.
type MemoryBlobService struct {
	mu      sync.Mutex
	Objects map[string][]byte
	seq     int
}

func NewMemoryBlobService() *MemoryBlobService {
	return &MemoryBlobService{Objects: map[string][]byte{}}
}

func (m *MemoryBlobService) UploadAttachment(ctx context.Context, dir string, fh *multipart.FileHeader) (StoredObject, error) {
	if fh == nil {
		return StoredObject{}, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	src, err := fh.Open()
	if err != nil {
		return StoredObject{}, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return StoredObject{}, err
	}
	return m.PutBytes(ctx, dir, fh.Filename, data, fh.Header.Get(fiber.HeaderContentType))
}

func (m *MemoryBlobService) PutBytes(_ context.Context, dir, filename string, data []byte, contentType string) (StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	key := fmt.Sprintf("%s/%d_%s", strings.Trim(dir, "/"), m.seq, filename)
	m.Objects[key] = append([]byte(nil), data...)
	return StoredObject{
		URL:         "mem://" + key,
		Key:         key,
		ContentType: contentType,
		Name:        filename,
		Type:        constants.DetectAttachmentType(filename),
	}, nil
}

func (m *MemoryBlobService) DeleteByPublicURL(_ context.Context, publicURL string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Objects, strings.TrimPrefix(publicURL, "mem://"))
	return nil
}
