package utils

import (
	"fmt"
	"log"
	"sort"
	"strings"
)

// LogEvent prints standardized log line with module/action/request_id.
// Message should be a summary, never a raw payload.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

// Fields renders key=value pairs in stable key order for LogEvent messages.
func Fields(kv map[string]any) string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, kv[k]))
	}
	return strings.Join(parts, " ")
}
