package api

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"net"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pulseesg/pulse/internal/errors"
)

// maxPlainMessage is the length from which a plain-text body is treated as
// a dump rather than a message.
const maxPlainMessage = 500

var stripPolicy = bluemonday.StrictPolicy()

// looksLikeHTML reports whether s is (or contains) an HTML document.
func looksLikeHTML(s string) bool {
	lower := strings.ToLower(s)
	return strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html")
}

// stripTags removes all markup and collapses whitespace.
func stripTags(s string) string {
	clean := html.UnescapeString(stripPolicy.Sanitize(s))
	return strings.Join(strings.Fields(clean), " ")
}

// messageFromBody extracts a readable message from an error response body.
// It returns "" when the body has nothing usable, in which case the caller
// falls back to the canned phrase for the status.
func messageFromBody(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}

	switch body[0] {
	case '{':
		var obj map[string]any
		if json.Unmarshal(body, &obj) == nil {
			return messageFromObject(obj)
		}
	case '"':
		var s string
		if json.Unmarshal(body, &s) == nil {
			return plainMessage(s)
		}
	}
	return plainMessage(string(body))
}

func messageFromObject(obj map[string]any) string {
	for _, key := range []string{"error", "message"} {
		s, ok := obj[key].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		if looksLikeHTML(s) {
			return ""
		}
		if clean := stripTags(s); clean != "" {
			return clean
		}
	}
	return ""
}

func plainMessage(s string) string {
	if looksLikeHTML(s) {
		return ""
	}
	clean := stripTags(s)
	if len(clean) >= maxPlainMessage {
		return ""
	}
	return clean
}

// statusError builds the error for a non-2xx response.
func statusError(status int, body []byte) *errors.Error {
	return errors.HTTPStatus(status, messageFromBody(body))
}

// transportError classifies a request that produced no response.
func transportError(err error, host string) *errors.Error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.RequestTimeout(err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return errors.RequestTimeout(err)
	}
	if errors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.ErrNetwork, "Request cancelled.")
	}
	return errors.NetworkUnavailable(host, err)
}
