package timestamp

// Format identifies which of the known textual shapes a timestamp was
// read from. The set is closed; FormatNone is the zero value.
type Format uint8

const (
	// FormatNone means no timestamp was recognized.
	FormatNone Format = iota

	// Yoda is "YYYY-MM-DD HH:MM:SS", 19 bytes. It is also the canonical
	// form produced by the rewriter.
	Yoda

	// CarmenErr is "YYYYMMDDHHMMSS", 14 bytes without separators.
	CarmenErr

	// Carmen is "DD.MM.YY HH:MM:SS", 17 bytes with a two-digit year.
	Carmen
)

// Formats lists the known formats in the order the fast recognizer
// tries them.
var Formats = []Format{Yoda, CarmenErr, Carmen}

// CanonicalLen is the length of the canonical rendering.
const CanonicalLen = 19

// Len returns the number of bytes the timestamp occupies at the start of
// the line.
func (f Format) Len() int {
	switch f {
	case Yoda:
		return 19
	case CarmenErr:
		return 14
	case Carmen:
		return 17
	default:
		return 0
	}
}

// String returns the format name.
func (f Format) String() string {
	switch f {
	case Yoda:
		return "yoda"
	case CarmenErr:
		return "carmen-err"
	case Carmen:
		return "carmen"
	default:
		return "none"
	}
}

// Layout returns the Go time layout matching the format.
// Carmen uses a two-digit year; the caller resolves the century.
func (f Format) Layout() string {
	switch f {
	case Yoda:
		return "2006-01-02 15:04:05"
	case CarmenErr:
		return "20060102150405"
	case Carmen:
		return "02.01.06 15:04:05"
	default:
		return ""
	}
}

// Example returns a sample timestamp in the format.
func (f Format) Example() string {
	switch f {
	case Yoda:
		return "2023-01-26 09:32:28"
	case CarmenErr:
		return "20230729111238"
	case Carmen:
		return "30.12.22 00:22:52"
	default:
		return ""
	}
}

// MarshalText implements encoding.TextMarshaler so formats render by name
// in JSON reports and map keys.
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
