package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/url"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/batuwa-travels/travel-api/internal/domain"
)

const (
	requestBodyLogKey  = "http.request.body.summary"
	responseBodyLogKey = "http.response.body.summary"
	maxLoggedBody      = 2048
	redactedValue      = "[redacted]"
)

// Matched against lowercased field names.
var secretKeyFragments = []string{"password", "token", "secret"}

// Customer contact details arrive on public booking, review and inquiry forms.
var contactKeys = map[string]bool{
	"email":         true,
	"customeremail": true,
	"phone":         true,
	"customerphone": true,
}

type requestLogLine struct {
	Time          string `json:"time"`
	RequestID     string `json:"request_id,omitempty"`
	AdminID       string `json:"admin_id"`
	AdminUsername string `json:"admin_username,omitempty"`
	ClientIP      string `json:"client_ip,omitempty"`
	LatencyMS     int64  `json:"latency_ms"`
	Request       struct {
		Method string `json:"method"`
		URI    string `json:"uri"`
		Route  string `json:"route,omitempty"`
		Body   any    `json:"body,omitempty"`
	} `json:"request"`
	Response struct {
		Status int    `json:"status"`
		Body   any    `json:"body,omitempty"`
		Error  string `json:"error,omitempty"`
	} `json:"response"`
}

func registerLogging(e *echo.Echo) {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			line := requestLogLine{
				Time:      v.StartTime.Format(time.RFC3339),
				RequestID: v.RequestID,
				AdminID:   "anonymous",
				ClientIP:  domain.RequestMetaFromContext(c.Request().Context()).IP,
				LatencyMS: v.Latency.Milliseconds(),
			}
			if actor, ok := CurrentActor(c); ok {
				line.AdminID = actor.AdminID.String()
				line.AdminUsername = actor.Username
			}

			line.Request.Method = v.Method
			line.Request.URI = v.URI
			line.Request.Route = c.Path()
			line.Request.Body = c.Get(requestBodyLogKey)
			line.Response.Status = v.Status
			line.Response.Body = c.Get(responseBodyLogKey)
			if v.Error != nil {
				line.Response.Error = v.Error.Error()
			}

			buf, err := json.Marshal(line)
			if err != nil {
				return err
			}
			log.Println(string(buf))
			return nil
		},
	}))

	e.Use(middleware.BodyDumpWithConfig(middleware.BodyDumpConfig{
		Skipper: skipBodyDump,
		Handler: func(c echo.Context, reqBody, resBody []byte) {
			if summary := summarizeBody(reqBody, c.Request().Header.Get(echo.HeaderContentType)); summary != nil {
				c.Set(requestBodyLogKey, summary)
			}
			if summary := summarizeBody(resBody, c.Response().Header().Get(echo.HeaderContentType)); summary != nil {
				c.Set(responseBodyLogKey, summary)
			}
		},
	}))
}

// skipBodyDump keeps exports, docs and scrape output out of the body buffer.
func skipBodyDump(c echo.Context) bool {
	path := c.Request().URL.Path
	return strings.HasPrefix(path, "/swagger") ||
		path == "/metrics" ||
		strings.Contains(path, "/export/")
}

func summarizeBody(body []byte, contentType string) any {
	if len(body) == 0 {
		return nil
	}

	mediaType, params, _ := mime.ParseMediaType(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		return summarizeMultipart(body, params["boundary"])
	case mediaType == "application/x-www-form-urlencoded":
		if values, err := url.ParseQuery(string(body)); err == nil {
			return summarizeForm(values)
		}
	case mediaType == echo.MIMEApplicationJSON || json.Valid(body):
		var data any
		if err := json.Unmarshal(body, &data); err == nil {
			return truncateJSON(redactJSON(data, ""))
		}
	}

	if isBinary(body) {
		return fmt.Sprintf("binary (%d bytes)", len(body))
	}
	text := string(body)
	for _, fragment := range secretKeyFragments {
		if strings.Contains(strings.ToLower(text), fragment) {
			return redactedValue
		}
	}
	return clampString(text)
}

// isSensitiveKey reports whether a lowercased field name holds a credential.
func isSensitiveKey(key string) bool {
	for _, fragment := range secretKeyFragments {
		if strings.Contains(key, fragment) {
			return true
		}
	}
	return false
}

func redactJSON(value any, key string) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = redactJSON(item, strings.ToLower(k))
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = redactJSON(item, key)
		}
		return out
	case string:
		return redactValue(key, v)
	default:
		if isSensitiveKey(key) {
			return redactedValue
		}
		return v
	}
}

func redactValue(key, value string) string {
	switch {
	case isSensitiveKey(key):
		return redactedValue
	case contactKeys[key]:
		return maskContact(value)
	case isBinary([]byte(value)):
		return "binary"
	default:
		return clampString(value)
	}
}

// maskContact keeps enough of an address or number to correlate log lines.
func maskContact(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return value
	}
	if local, host, ok := strings.Cut(value, "@"); ok {
		if local == "" {
			return "***@" + host
		}
		first, _ := utf8.DecodeRuneInString(local)
		return string(first) + "***@" + host
	}
	digits := make([]rune, 0, len(value))
	for _, r := range value {
		if unicode.IsDigit(r) {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 3 {
		return "***"
	}
	return "***" + string(digits[len(digits)-3:])
}

func summarizeForm(values url.Values) any {
	fields := make(map[string]any, len(values))
	for key, vals := range values {
		lower := strings.ToLower(key)
		if len(vals) == 1 {
			fields[key] = redactValue(lower, vals[0])
			continue
		}
		list := make([]any, len(vals))
		for i, v := range vals {
			list[i] = redactValue(lower, v)
		}
		fields[key] = list
	}
	return truncateJSON(fields)
}

// summarizeMultipart reports text fields and file metadata, never file bytes.
func summarizeMultipart(body []byte, boundary string) any {
	if boundary == "" {
		return fmt.Sprintf("binary (%d bytes)", len(body))
	}
	reader := multipart.NewReader(bytes.NewReader(body), boundary)
	fields := make(map[string]any)
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Sprintf("binary (%d bytes)", len(body))
		}
		name := part.FormName()
		if name == "" {
			_ = part.Close()
			continue
		}
		data, err := io.ReadAll(part)
		switch {
		case err != nil:
			fields[name] = "unreadable"
		case part.FileName() != "":
			fields[name] = map[string]any{
				"filename":    part.FileName(),
				"contentType": part.Header.Get(echo.HeaderContentType),
				"bytes":       len(data),
			}
		default:
			fields[name] = redactValue(strings.ToLower(name), string(data))
		}
		_ = part.Close()
	}
	if len(fields) == 0 {
		return fmt.Sprintf("binary (%d bytes)", len(body))
	}
	return truncateJSON(fields)
}

// truncateJSON replaces oversized documents with their size and top-level keys.
func truncateJSON(value any) any {
	buf, err := json.Marshal(value)
	if err != nil || len(buf) <= maxLoggedBody {
		return value
	}
	summary := map[string]any{"_truncated": true, "_bytes": len(buf)}
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		summary["_keys"] = keys
	case []any:
		summary["_items"] = len(v)
	}
	return summary
}

func isBinary(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		if !unicode.IsPrint(r) && !unicode.IsSpace(r) {
			return true
		}
		data = data[size:]
	}
	return false
}

func clampString(value string) string {
	if len(value) <= maxLoggedBody {
		return value
	}
	truncated := value[:maxLoggedBody]
	for !utf8.ValidString(truncated) && len(truncated) > 0 {
		truncated = truncated[:len(truncated)-1]
	}
	return truncated + "...(truncated)"
}
