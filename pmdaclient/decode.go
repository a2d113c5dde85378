package pmdaclient

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
)

// DecodeText converts a PMDA response body to UTF-8. The search pages are
// served as UTF-8 but the CSV export arrives in Shift_JIS, so the body is
// sniffed first and decoded only when needed.
func DecodeText(body []byte) string {
	if utf8.Valid(body) {
		return string(body)
	}

	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(body)
	if err != nil {
		// Undecodable bytes are kept as-is; downstream parsing treats the
		// affected rows as skippable.
		return string(body)
	}
	return string(decoded)
}
