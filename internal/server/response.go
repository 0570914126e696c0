// SPDX-License-Identifier: MPL-2.0

package server

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// Status codes the daemon answers with.
const (
	StatusOK                  = 200
	StatusNotFound            = 404
	StatusInternalServerError = 500
)

// Content types.
const (
	ContentTypeJSON = "application/javascript; charset=utf-8"
	ContentTypeText = "text/plain; charset=utf-8"
)

// StatusLine returns the reason-phrased status for code. Codes the daemon
// never produces are reported as 501.
func StatusLine(code int) string {
	switch code {
	case StatusOK:
		return "200 OK"
	case StatusNotFound:
		return "404 Page Not Found"
	case StatusInternalServerError:
		return "500 Internal Server Error"
	default:
		return "501 Not Implemented"
	}
}

// parseRequestLine splits "GET /getdata HTTP/1.1" on runs of whitespace
// into at most three parts; the protocol keeps whatever follows the path.
// Missing parts are empty.
func parseRequestLine(line string) *Request {
	var parts []string
	rest := strings.TrimSpace(line)
	for len(parts) < 2 && rest != "" {
		i := strings.IndexFunc(rest, unicode.IsSpace)
		if i < 0 {
			parts = append(parts, rest)
			rest = ""
			break
		}
		parts = append(parts, rest[:i])
		rest = strings.TrimLeftFunc(rest[i:], unicode.IsSpace)
	}
	if rest != "" {
		parts = append(parts, rest)
	}

	req := &Request{}
	if len(parts) > 0 {
		req.Method = parts[0]
	}
	if len(parts) > 1 {
		req.Path = parts[1]
	}
	if len(parts) > 2 {
		req.Protocol = parts[2]
	}
	return req
}

// writeResponse writes the status line, headers and body. versionHeader is
// the name of the header carrying version, e.g. "Dex-Version".
func writeResponse(w io.Writer, resp *Response, versionHeader, version string) error {
	bw := bufio.NewWriter(w)

	contentType := resp.ContentType
	if contentType == "" {
		contentType = ContentTypeText
	}

	fmt.Fprintf(bw, "HTTP/1.1 %s\r\n", StatusLine(resp.Status))
	fmt.Fprintf(bw, "Content-Type: %s\r\n", contentType)
	fmt.Fprintf(bw, "Content-Length: %d\r\n", len(resp.Body))
	fmt.Fprintf(bw, "%s: %s\r\n", versionHeader, version)
	bw.WriteString("Connection: close\r\n\r\n")
	bw.Write(resp.Body)

	return bw.Flush()
}
