package media

import (
	"path"
	"strings"
)

type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindFile  Kind = "file"
)

var kindsByExt = map[string]Kind{
	"jpg": KindImage, "jpeg": KindImage, "png": KindImage, "gif": KindImage, "webp": KindImage, "bmp": KindImage,
	"mp4": KindVideo, "mov": KindVideo, "3gp": KindVideo, "avi": KindVideo, "mkv": KindVideo, "webm": KindVideo, "m4v": KindVideo,
	"mp3": KindAudio, "opus": KindAudio, "m4a": KindAudio, "aac": KindAudio, "wav": KindAudio, "ogg": KindAudio, "wma": KindAudio,
}

// KindOf dispatches on the file extension only. Contents are never sniffed.
func KindOf(name string) Kind {
	if k, ok := kindsByExt[ext(name)]; ok {
		return k
	}
	return KindFile
}

// MIMEType returns the type a player should be given for name, or "" for
// plain files.
func MIMEType(name string) string {
	e := ext(name)
	switch KindOf(name) {
	case KindImage:
		if e == "jpg" {
			e = "jpeg"
		}
		return "image/" + e
	case KindVideo:
		if e == "mov" {
			e = "mp4"
		}
		return "video/" + e
	case KindAudio:
		if e == "opus" {
			e = "ogg"
		}
		return "audio/" + e
	}
	return ""
}

func ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}
