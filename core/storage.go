package core

import (
	"context"
	"io"
	"regexp"

	"github.com/google/uuid"
)

// FileStore is any service that can persist uploaded files and serve them publicly.
type FileStore interface {
	Upload(ctx context.Context, path, contentType string, r io.Reader) error
	PublicURL(path string) string
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// MakeObjectPath builds a unique object path namespaced by user and assignment.
// The random suffix prevents collisions between same-named uploads.
func MakeObjectPath(userID, assignmentID, filename string) string {
	clean := unsafeFilenameChars.ReplaceAllString(filename, "-")
	if clean == "" {
		clean = "file"
	}
	return userID + "/" + assignmentID + "/" + uuid.New().String() + "-" + clean
}
