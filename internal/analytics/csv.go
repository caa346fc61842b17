package analytics

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// RenderCSV writes records as comma-separated text. The header is the bare
// key list of the first record. Textual fields are always double-quoted with
// embedded quotes doubled; numbers and booleans are written bare and nil
// values as empty fields. No records renders as an empty body.
func RenderCSV(records []Record) []byte {
	if len(records) == 0 {
		return []byte{}
	}

	var buf bytes.Buffer
	header := records[0].Keys()
	buf.WriteString(strings.Join(header, ","))
	buf.WriteByte('\n')

	for _, record := range records {
		for i, key := range header {
			if i > 0 {
				buf.WriteByte(',')
			}
			value, _ := record.Get(key)
			buf.WriteString(formatField(value))
		}
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func quoteField(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func formatField(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return quoteField(v)
	case fmt.Stringer:
		return quoteField(v.String())
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	default:
		return fmt.Sprint(v)
	}
}
