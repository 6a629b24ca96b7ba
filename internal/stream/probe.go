package stream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// engineIORecordSeparator splits packets in a polling payload.
const engineIORecordSeparator = 0x1e

// Probe performs the Engine.IO polling handshake against endpoint and
// returns the server's open packet. It does not join any namespace.
func Probe(ctx context.Context, endpoint string, timeout time.Duration) (OpenPacket, error) {
	pollURL, err := SocketIOURL(endpoint, "polling")
	if err != nil {
		return OpenPacket{}, err
	}

	client := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "*/*")

	resp, err := client.R().
		SetContext(ctx).
		Get(pollURL)
	if err != nil {
		return OpenPacket{}, fmt.Errorf("handshake request: %w", err)
	}
	if resp.IsError() {
		return OpenPacket{}, fmt.Errorf("handshake returned %s", resp.Status())
	}

	return parseOpenPayload(resp.Body())
}

func parseOpenPayload(body []byte) (OpenPacket, error) {
	first := body
	if i := bytes.IndexByte(body, engineIORecordSeparator); i >= 0 {
		first = body[:i]
	}
	if len(first) == 0 || first[0] != eioOpen {
		return OpenPacket{}, fmt.Errorf("unexpected handshake payload %q", truncate(body))
	}

	var open OpenPacket
	if err := json.Unmarshal(first[1:], &open); err != nil {
		return OpenPacket{}, fmt.Errorf("decode handshake: %w", err)
	}
	if open.SID == "" {
		return OpenPacket{}, fmt.Errorf("handshake has no session id")
	}
	return open, nil
}
