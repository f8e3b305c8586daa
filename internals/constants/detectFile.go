package constants

import (
	"path/filepath"
	"strings"
)

const (
	AttachmentImage        = "image"
	AttachmentAudio        = "audio"
	AttachmentPDF          = "pdf"
	AttachmentDocument     = "document"
	AttachmentPresentation = "presentation"
	AttachmentFile         = "file"
)

// DetectAttachmentType dipakai untuk mengisi attachment.type pada soal & log reset.
func DetectAttachmentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))

	switch ext {
	case ".mp3", ".wav", ".ogg":
		return AttachmentAudio
	case ".doc", ".docx":
		return AttachmentDocument
	case ".pdf":
		return AttachmentPDF
	case ".ppt", ".pptx":
		return AttachmentPresentation
	case ".png", ".jpg", ".jpeg", ".webp":
		return AttachmentImage
	default:
		return AttachmentFile
	}
}
