package routing

import "strings"

// JoinPath joins route segments into one absolute path. Repeated slashes
// collapse and a trailing slash is dropped unless the path is "/".
//
//	JoinPath("/api/", "/users", "{id}") == "/api/users/{id}"
func JoinPath(parts ...string) string {
	joined := "/" + strings.Join(parts, "/")

	var b strings.Builder
	b.Grow(len(joined))
	for i := 0; i < len(joined); i++ {
		if joined[i] == '/' && i > 0 && joined[i-1] == '/' {
			continue
		}
		b.WriteByte(joined[i])
	}

	p := b.String()
	if len(p) > 1 {
		p = strings.TrimSuffix(p, "/")
	}
	return p
}
