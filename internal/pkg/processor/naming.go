package processor

import (
	"fmt"
	"path/filepath"
	"strings"
)

// OutputName is the file name of augmented image index for a source with the given stem.
func OutputName(stem string, index int, ext string) string {
	return fmt.Sprintf("%s_aug%d.%s", stem, index, strings.TrimPrefix(ext, "."))
}

// Stem is the base name of path without its extension.
func Stem(path string) string {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "image"
	}
	return stem
}
