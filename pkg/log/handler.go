package log

import (
	"github.com/cockroachdb/errors"
)

// extractStacktrace pulls the first cockroachdb/errors safe detail (its
// captured stack trace) out of err, if any, so zerologLogger.Error can attach
// it under StacktraceAttrKey.
func extractStacktrace(err error) string {
	safeDetails := errors.GetSafeDetails(err).SafeDetails
	if len(safeDetails) > 0 {
		return safeDetails[0]
	}
	return ""
}
