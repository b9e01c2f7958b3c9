package runner

import (
	"fmt"
	"strings"
)

// PolicyBreakExitCode is the engine's "scan ran, findings violated policy"
// exit; reporting still runs for it.
const PolicyBreakExitCode = 8

// exitCodeMessages translates the engine's exit codes for user-facing logs.
var exitCodeMessages = map[byte]string{
	'0': "Bridge execution successfully completed",
	'1': "Undefined error, check error logs",
	'2': "Error from adapter end",
	'3': "Failed to shutdown the bridge",
	'8': "The config option bridge.break has been set to true",
	'9': "Bridge initialization failed",
}

// LogBridgeExitCodes rewrites a message ending in a known single-digit
// engine exit code into its translated form. Messages ending in unknown
// codes pass through unchanged.
func LogBridgeExitCodes(message string) string {
	trimmed := strings.TrimSpace(message)
	if trimmed == "" {
		return message
	}
	last := trimmed[len(trimmed)-1]
	if text, ok := exitCodeMessages[last]; ok {
		return fmt.Sprintf("Exit Code: %c %s", last, text)
	}
	return message
}
