package server

import (
	"fmt"
	"net/http"
	"path"
	"strings"
)

// NormalizeBasePath cleans a mount path. The root yields "".
func NormalizeBasePath(raw string) (string, error) {
	p := strings.TrimSpace(raw)
	if p == "" || p == "/" {
		return "", nil
	}
	if strings.Contains(p, "://") || strings.ContainsAny(p, "?#") {
		return "", fmt.Errorf("base path %q must be a plain URL path", raw)
	}
	p = "/" + strings.TrimPrefix(p, "/")
	for _, seg := range strings.Split(p[1:], "/") {
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("base path %q must not contain dot segments", raw)
		}
	}
	if p = path.Clean(p); p == "/" {
		return "", nil
	}
	return p, nil
}

// WrapBasePath mounts handler under base. The bare base redirects to base/.
func WrapBasePath(base string, handler http.Handler) http.Handler {
	if base == "" {
		return handler
	}
	root := http.NewServeMux()
	root.Handle(base+"/", http.StripPrefix(base, handler))
	root.HandleFunc(base, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, base+"/", http.StatusMovedPermanently)
	})
	return root
}
