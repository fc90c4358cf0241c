// Package enex reads Evernote export (.enex) files.
package enex

import (
	"strings"
	"time"
)

// Resource is one binary attachment of a note. Hash is the MD5 of the
// decoded data, hex encoded - ENML <en-media> references use it.
type Resource struct {
	Data      []byte
	Mime      string
	Hash      string
	Filename  string
	Width     int // pixels, 0 for non-images or when unknown
	Height    int
	SourceURL string
}

// IsImage reports whether the resource is an image of any kind.
func (r *Resource) IsImage() bool {
	return strings.HasPrefix(r.Mime, "image/")
}

// IsDocument reports whether the resource is a document attachment
// (PDF or Office formats).
func (r *Resource) IsDocument() bool {
	switch r.Mime {
	case "application/pdf",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"application/vnd.openxmlformats-officedocument.presentationml.presentation",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":
		return true
	}
	return false
}

var mimeExtensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/svg+xml":   "svg",
	"image/webp":      "webp",
	"image/gif":       "gif",
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   "docx",
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": "pptx",
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet":         "xlsx",
	"text/markdown":                "md",
	"text/plain":                   "txt",
	"application/zip":              "zip",
	"application/x-zip-compressed": "zip",
}

// Extension returns the file extension matching the resource mime type,
// "bin" when the type is not recognized.
func (r *Resource) Extension() string {
	if ext, ok := mimeExtensions[r.Mime]; ok {
		return ext
	}
	return "bin"
}

// Note is one note of an export: metadata plus ENML content and attached
// resources.
type Note struct {
	Title     string
	Content   string // ENML, usually still inside its CDATA envelope
	Created   time.Time
	Updated   time.Time
	Tags      []string
	Author    string
	Source    string
	SourceURL string
	Resources []Resource
}

// ResourceByHash finds an attached resource by MD5 hash.
func (n *Note) ResourceByHash(hash string) *Resource {
	for i := range n.Resources {
		if n.Resources[i].Hash == hash {
			return &n.Resources[i]
		}
	}
	return nil
}

// Export is a fully parsed .enex file.
type Export struct {
	Notes []Note
}
