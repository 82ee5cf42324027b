// Package params turns the loosely shaped argument objects sent by the agent
// platform into the exact payloads the downstream wallet SDK and Splitwise
// API accept.
package params

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"

	"github.com/Adi-21/bhidi0xgasless/internal/core"
)

var (
	decimalPattern     = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	decodeFieldPattern = regexp.MustCompile(`'([^']+)'`)
)

// MetadataFields are injected by the agent platform and never forwarded.
var MetadataFields = []string{"toolName", "userId", "executionId", "chatId", "timestamp", "requestId"}

// StripMetadata returns a copy of args without platform metadata keys.
func StripMetadata(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, k := range MetadataFields {
		delete(out, k)
	}
	return out
}

// decode copies args into a struct tagged with `json`, converting between
// strings and numbers where the platform is inconsistent.
func decode(args map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return core.Internal("build decoder: %v", err)
	}
	if err := dec.Decode(args); err != nil {
		return decodeError(err)
	}
	return nil
}

// decodeError reports the first field mapstructure rejected. Its messages
// quote the field name: "'to' expected type 'string', got ...".
func decodeError(err error) error {
	msg := err.Error()
	var merr *mapstructure.Error
	if errors.As(err, &merr) && len(merr.Errors) > 0 {
		msg = merr.Errors[0]
	}
	if m := decodeFieldPattern.FindStringSubmatch(msg); m != nil {
		return core.InvalidParameter(m[1], "has an unsupported type")
	}
	return core.InvalidFormat("invalid arguments: %v", err)
}

// Amount validates a positive amount given as a string or number and
// returns it in shortest decimal form ("1", "100.5"). Values are parsed as
// float64, so precision beyond 15-17 significant digits is not preserved.
func Amount(field string, v any) (string, error) {
	var f float64
	switch x := v.(type) {
	case nil:
		return "", core.MissingParameter(field)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return "", core.MissingParameter(field)
		}
		if !decimalPattern.MatchString(s) {
			return "", core.InvalidParameter(field, "must be a positive decimal number")
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return "", core.InvalidParameter(field, "must be a positive number")
		}
		f = parsed
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case uint64:
		f = float64(x)
	default:
		return "", core.InvalidParameter(field, fmt.Sprintf("unsupported type %T", v))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", core.InvalidParameter(field, "must be a finite number")
	}
	if f <= 0 {
		return "", core.InvalidParameter(field, "must be greater than zero")
	}
	return strconv.FormatFloat(f, 'f', -1, 64), nil
}

// ChainID validates an integral chain id given as a string or number.
func ChainID(field string, v any) (int, error) {
	switch x := v.(type) {
	case nil:
		return 0, core.MissingParameter(field)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0, core.MissingParameter(field)
		}
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return 0, core.InvalidParameter(field, "must be a positive integer chain id")
		}
		return n, nil
	case int:
		if x <= 0 {
			return 0, core.InvalidParameter(field, "must be a positive integer chain id")
		}
		return x, nil
	case int64:
		if x <= 0 || x > math.MaxInt32 {
			return 0, core.InvalidParameter(field, "must be a positive integer chain id")
		}
		return int(x), nil
	case float64:
		if x != math.Trunc(x) || x <= 0 || x > math.MaxInt32 {
			return 0, core.InvalidParameter(field, "must be a positive integer chain id")
		}
		return int(x), nil
	default:
		return 0, core.InvalidParameter(field, fmt.Sprintf("unsupported type %T", v))
	}
}

// required trims s and fails with MISSING_PARAMETER when it is empty. A
// non-empty message replaces the default one.
func required(field, s, message string) (string, error) {
	s = strings.TrimSpace(s)
	if s != "" {
		return s, nil
	}
	e := core.MissingParameter(field)
	if message != "" {
		e.Message = message
	}
	return "", e
}

// onField tags a token resolver failure with the argument it came from.
func onField(err error, field string) error {
	e, ok := core.AsError(err)
	if !ok {
		return err
	}
	cp := *e
	cp.Field = field
	return &cp
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
