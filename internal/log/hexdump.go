package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// HexLogger emits single-line hex dumps of endpoint payloads.
type HexLogger interface {
	Dump(in bool, data []byte)
}

// hexLogger implements HexLogger with thread-safe writes.
type hexLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewHex creates a new HexLogger. If w is nil, returns a no-op logger.
func NewHex(w io.Writer) HexLogger {
	return &hexLogger{w: w}
}

// Dump emits one line with a timestamp, direction tag and hex payload.
// in=true means host-to-device (OUT), in=false device-to-host (IN).
func (h *hexLogger) Dump(in bool, data []byte) {
	if len(data) == 0 || h.w == nil {
		return
	}

	dir := "IN "
	if in {
		dir = "OUT"
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s %d bytes: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		dir,
		len(data),
		hexbuf.String())

	h.mu.Lock()
	_, _ = h.w.Write([]byte(line))
	h.mu.Unlock()
}
