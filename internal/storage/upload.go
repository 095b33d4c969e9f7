package storage

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ObjectKey builds the key for a menu photo: menus/<slug>/<uuid><ext>.
func ObjectKey(restaurantSlug, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("menus/%s/%s%s", restaurantSlug, uuid.NewString(), strings.ToLower(ext))
}
