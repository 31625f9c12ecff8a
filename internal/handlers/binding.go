package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is required")

// BindNestedOrFlat decodes the request body into obj. A body of the form
// {"<key>": {...}} is unwrapped first; any other object is decoded as is.
// The body stays readable afterwards.
func BindNestedOrFlat(c *gin.Context, key string, obj interface{}) error {
	if c.Request.Body == nil {
		return errEmptyBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read request body: %w", err)
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(body))

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return errEmptyBody
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return fmt.Errorf("request body must be a JSON object: %w", err)
	}
	if nested, ok := fields[key]; ok && bytes.HasPrefix(bytes.TrimSpace(nested), []byte("{")) {
		body = nested
	}
	return json.Unmarshal(body, obj)
}
