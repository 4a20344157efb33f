package adapter

import (
	"io"
	"strings"
)

// maxSnippet caps how much of an error response body ends up in logs.
const maxSnippet = 100

// readSnippet returns up to maxSnippet bytes of body, trimmed. Read errors
// yield whatever was read so far.
func readSnippet(body io.Reader) string {
	buf, _ := io.ReadAll(io.LimitReader(body, maxSnippet))
	return strings.TrimSpace(string(buf))
}
