package output

import (
	"encoding/json"
	"errors"
	"io"
	"os"
)

// recoverableError mirrors models.RecoverableError so output does not import models.
type recoverableError interface {
	error
	ErrorCode() string
	Context() map[string]string
	SuggestedAction() string
}

// Response represents a standard JSON response
type Response struct {
	SchemaVersion   string            `json:"schema_version"`
	Success         bool              `json:"success"`
	Data            any               `json:"data,omitempty"`
	Error           string            `json:"error,omitempty"`
	ErrorCode       string            `json:"error_code,omitempty"`
	ErrorContext    map[string]string `json:"error_context,omitempty"`
	SuggestedAction string            `json:"suggested_action,omitempty"`
}

// Success wraps a successful response with data
func Success(data any) Response {
	return Response{
		SchemaVersion: "v1",
		Success:       true,
		Data:          data,
	}
}

// Error wraps an error in a response. Recoverable errors also fill the
// error_code, error_context and suggested_action fields.
func Error(err error) Response {
	resp := Response{
		SchemaVersion: "v1",
		Success:       false,
		Error:         err.Error(),
	}
	var re recoverableError
	if errors.As(err, &re) {
		resp.ErrorCode = re.ErrorCode()
		resp.ErrorContext = re.Context()
		resp.SuggestedAction = re.SuggestedAction()
	}
	return resp
}

// Config controls where and how JSON is written.
type Config struct {
	Writer io.Writer
	Pretty bool
}

// ConfigFor writes to w, compact unless TALLY_PRETTY_JSON is 1 or true.
func ConfigFor(w io.Writer) Config {
	v := os.Getenv("TALLY_PRETTY_JSON")
	return Config{Writer: w, Pretty: v == "1" || v == "true"}
}

// PrintWith encodes v as JSON using cfg.
func PrintWith(cfg Config, v any) error {
	enc := json.NewEncoder(cfg.Writer)
	if cfg.Pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

// Print writes v as JSON to w.
func Print(w io.Writer, v any) error {
	return PrintWith(ConfigFor(w), v)
}

// PrintSuccess prints a success response
func PrintSuccess(w io.Writer, data any) error {
	return Print(w, Success(data))
}

// PrintError prints an error response
func PrintError(w io.Writer, err error) error {
	return Print(w, Error(err))
}
