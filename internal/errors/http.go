package errors

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"apimanager/internal/constants"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// Sanitizer scrubs host details out of messages coming from external systems
// before they are sent to clients.
type Sanitizer struct {
	basePath string
}

// NewSanitizer creates a sanitizer that hides the given repository base path
func NewSanitizer(basePath string) *Sanitizer {
	if basePath != "" {
		basePath = filepath.Clean(basePath)
	}
	return &Sanitizer{basePath: basePath}
}

// Message keeps only the first line, rewrites absolute paths under the base
// directory to folder-relative form and truncates overly long text.
func (s *Sanitizer) Message(msg string) string {
	if i := strings.IndexByte(msg, '\n'); i >= 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)

	if s != nil && s.basePath != "" && s.basePath != string(filepath.Separator) {
		msg = s.relativize(msg)
	}

	if len(msg) > constants.MaxErrorMessageLength {
		cut := constants.MaxErrorMessageLength
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}

// relativize rewrites occurrences of the base path that end at a path
// boundary. "<base>/x" becomes "x" and a bare "<base>" becomes ".";
// siblings such as "<base>-backup" are left alone.
func (s *Sanitizer) relativize(msg string) string {
	var b strings.Builder
	for {
		i := strings.Index(msg, s.basePath)
		if i < 0 {
			b.WriteString(msg)
			return b.String()
		}
		rest := msg[i+len(s.basePath):]
		switch {
		case len(rest) > 0 && rest[0] == filepath.Separator:
			b.WriteString(msg[:i])
			msg = rest[1:]
		case len(rest) == 0 || !isNameByte(rest[0]):
			b.WriteString(msg[:i])
			b.WriteByte('.')
			msg = rest
		default:
			b.WriteString(msg[:i+len(s.basePath)])
			msg = rest
		}
	}
}

// isNameByte reports whether c can continue a file name component.
func isNameByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~', c == '+', c == '@':
		return true
	}
	return c >= utf8.RuneSelf
}

// ToResponse converts any error into a status code and client-facing body.
// Classified errors keep their status; echo errors (unknown route, bad
// method) keep theirs; everything else is an internal error.
func (s *Sanitizer) ToResponse(err error) (int, ErrorResponse) {
	if e, ok := As(err); ok {
		msg := e.Message
		if e.HTTPStatus() >= http.StatusInternalServerError {
			msg = s.Message(msg)
		}
		return e.HTTPStatus(), ErrorResponse{Error: msg}
	}

	if he, ok := err.(*echo.HTTPError); ok {
		msg := http.StatusText(he.Code)
		switch m := he.Message.(type) {
		case string:
			msg = m
		case error:
			msg = m.Error()
		case nil:
		default:
			msg = fmt.Sprint(m)
		}
		return he.Code, ErrorResponse{Error: s.Message(msg)}
	}

	return s.ToResponse(InternalError(err.Error(), err))
}
