package dist

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// HashedName returns name with a content hash inserted before its extension,
// for example "logo-0123456789abcdef.png".
func HashedName(name string, data []byte) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	return fmt.Sprintf("%s-%016x%s", strings.TrimSuffix(base, ext), xxhash.Sum64(data), ext)
}
