// file: internals/helpers/oss/multipartx.go
package helper

import (
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Default kandidat nama field yg umum dipakai FE/Postman
var defaultFileFieldCandidates = []string{
	"attachments[]", "attachments",
	"files[]", "files", "file",
}

// IsMultipart cek Content-Type request.
func IsMultipart(c *fiber.Ctx) bool {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	return strings.HasPrefix(ct, fiber.MIMEMultipartForm)
}

// CollectUploadFiles mengumpulkan semua *FileHeader dari form multipart sesuai urutan
// kandidat field. Field yang tidak ada di kandidat ikut disapu di akhir.
func CollectUploadFiles(form *multipart.Form, candidates ...string) []*multipart.FileHeader {
	if form == nil || form.File == nil {
		return nil
	}
	if len(candidates) == 0 {
		candidates = defaultFileFieldCandidates
	}

	var out []*multipart.FileHeader
	seen := map[string]bool{}
	appendAll := func(fhs []*multipart.FileHeader) {
		for _, fh := range fhs {
			if fh != nil && fh.Filename != "" {
				out = append(out, fh)
			}
		}
	}

	for _, key := range candidates {
		if fhs, ok := form.File[key]; ok {
			appendAll(fhs)
			seen[key] = true
		}
	}
	// sweep semua key lain
	for key, fhs := range form.File {
		if !seen[key] {
			appendAll(fhs)
		}
	}
	return out
}

// GetSingleFile ambil satu file dari beberapa kemungkinan nama field.
func GetSingleFile(c *fiber.Ctx, fieldNames ...string) (*multipart.FileHeader, error) {
	if len(fieldNames) == 0 {
		fieldNames = []string{"file", "attachment", "image"}
	}
	for _, name := range fieldNames {
		if fh, err := c.FormFile(name); err == nil && fh != nil {
			return fh, nil
		}
	}
	return nil, fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
}
