package model

import (
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// File type categories, matching the detail dialogs that render them
const (
	TypeText       = "text"
	TypeImage      = "image"
	TypeVideo      = "video"
	TypeAudio      = "audio"
	TypeDocument   = "document"
	TypeArchive    = "archive"
	TypeExecutable = "executable"
	TypeBinary     = "binary"
)

var extTypes = map[string]string{
	"txt": TypeText, "md": TypeText, "py": TypeText, "js": TypeText,
	"go": TypeText, "html": TypeText, "css": TypeText, "json": TypeText,
	"xml": TypeText, "csv": TypeText,

	"jpg": TypeImage, "jpeg": TypeImage, "png": TypeImage, "gif": TypeImage,
	"bmp": TypeImage, "svg": TypeImage, "webp": TypeImage,

	"mp4": TypeVideo, "avi": TypeVideo, "mkv": TypeVideo, "mov": TypeVideo,
	"wmv": TypeVideo, "flv": TypeVideo, "webm": TypeVideo,

	"mp3": TypeAudio, "wav": TypeAudio, "flac": TypeAudio, "aac": TypeAudio,
	"ogg": TypeAudio, "m4a": TypeAudio,

	"pdf": TypeDocument, "doc": TypeDocument, "docx": TypeDocument,
	"xls": TypeDocument, "xlsx": TypeDocument, "ppt": TypeDocument,
	"pptx": TypeDocument,

	"zip": TypeArchive, "rar": TypeArchive, "7z": TypeArchive,
	"tar": TypeArchive, "gz": TypeArchive,

	"exe": TypeExecutable, "msi": TypeExecutable, "deb": TypeExecutable,
	"rpm": TypeExecutable, "dmg": TypeExecutable,
}

// DetectFileType classifies a filename by extension. Files without an
// extension are treated as text, unknown extensions as binary.
func DetectFileType(name string) string {
	dot := strings.LastIndexByte(name, '.')
	if dot < 0 || dot == len(name)-1 {
		return TypeText
	}
	ext := strings.ToLower(name[dot+1:])
	if t, ok := extTypes[ext]; ok {
		return t
	}
	return TypeBinary
}

// DetectFileTypeAt classifies a real file on disk by content magic,
// falling back to extension when detection fails. Used when seeding the
// simulated filesystem from a real directory.
func DetectFileTypeAt(path, name string) string {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return DetectFileType(name)
	}
	return typeFromMIME(mtype, name)
}

func typeFromMIME(m *mimetype.MIME, name string) string {
	s := m.String()
	switch {
	case strings.HasPrefix(s, "text/"):
		return TypeText
	case strings.HasPrefix(s, "image/"):
		return TypeImage
	case strings.HasPrefix(s, "video/"):
		return TypeVideo
	case strings.HasPrefix(s, "audio/"):
		return TypeAudio
	}
	switch s {
	case "application/pdf", "application/msword",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation":
		return TypeDocument
	case "application/zip", "application/x-rar-compressed",
		"application/x-7z-compressed", "application/x-tar", "application/gzip":
		return TypeArchive
	case "application/x-executable", "application/x-elf",
		"application/x-mach-binary", "application/vnd.microsoft.portable-executable":
		return TypeExecutable
	}
	if t := DetectFileType(name); t != TypeBinary {
		return t
	}
	return TypeBinary
}
