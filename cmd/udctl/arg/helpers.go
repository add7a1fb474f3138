package arg

import (
	"bytes"
	"encoding/json"
)

// prettyJSON re-indents a daemon JSON reply for terminal output. The
// raw reply is returned unchanged when it isn't valid JSON.
func prettyJSON(raw string) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(raw), "", "  "); err != nil {
		return raw
	}
	return buf.String()
}
