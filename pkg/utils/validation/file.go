// pkg/utils/validation/file.go
package validation

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrFileSize     = errors.New("file size exceeds limit of 10MB")
	ErrFileType     = errors.New("invalid file type. Allowed types: JPG, PNG, WEBP")
	ErrFileRequired = errors.New("no file provided")

	ErrMaterialSize = errors.New("file size exceeds limit of 200MB")
	ErrMaterialType = errors.New("invalid file type. Allowed types: PDF, ZIP, MP4, MP3, DOCX, XLSX")
)

const (
	MaxImageSize    = 10 * 1024 * 1024  // 10MB
	MaxMaterialSize = 200 * 1024 * 1024 // 200MB
)

var AllowedImageTypes = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var AllowedMaterialTypes = map[string]bool{
	".pdf":  true,
	".zip":  true,
	".mp4":  true,
	".mp3":  true,
	".docx": true,
	".xlsx": true,
}

func ValidateImage(file *multipart.FileHeader) error {
	if file == nil {
		return ErrFileRequired
	}

	if file.Size > MaxImageSize {
		return ErrFileSize
	}

	ext := filepath.Ext(strings.ToLower(file.Filename))
	if !AllowedImageTypes[ext] {
		return ErrFileType
	}

	return nil
}

func ValidateMaterial(file *multipart.FileHeader) error {
	if file == nil {
		return ErrFileRequired
	}

	if file.Size > MaxMaterialSize {
		return ErrMaterialSize
	}

	ext := filepath.Ext(strings.ToLower(file.Filename))
	if !AllowedMaterialTypes[ext] {
		return ErrMaterialType
	}

	return nil
}
