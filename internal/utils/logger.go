package utils

import (
	"fmt"
	"log"
	"strings"
)

// LogEvent prints a standardized line: [MODULE] action=... request_id=... msg=...
// Keep messages summarized; never log passwords or tokens.
func LogEvent(requestID, module, action, message string) {
	req := strings.TrimSpace(requestID)
	if req == "" {
		req = "-"
	}
	log.Printf("[%s] action=%s request_id=%s msg=%s", strings.ToUpper(module), action, req, message)
}

// LogEventf is LogEvent with a format string for the message.
func LogEventf(requestID, module, action, format string, args ...any) {
	LogEvent(requestID, module, action, fmt.Sprintf(format, args...))
}
