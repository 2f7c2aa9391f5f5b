package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/quocanhngo/hifcm/internal/model"
)

const paramsKey = "hifcm.params"

// ArgType is the expected type of a request parameter
type ArgType string

const (
	TypeAny     ArgType = ""
	TypeInteger ArgType = "integer"
	TypeString  ArgType = "string"
)

// Arg describes one request parameter
type Arg struct {
	Required bool
	// NonEmpty rejects "" for a string arg that was sent
	NonEmpty bool
	Type     ArgType
	// Enum returns the allowed values. Nil means unrestricted.
	Enum func(ctx context.Context) ([]string, error)
}

// Params holds the request parameters after validation. Integer args are
// stored as int64.
type Params map[string]any

// Int returns an integer param, 0 when absent
func (p Params) Int(name string) int64 {
	n, _ := p[name].(int64)
	return n
}

// String returns a param formatted as a string, "" when absent
func (p Params) String(name string) string {
	switch v := p[name].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// Has reports whether a param was sent
func (p Params) Has(name string) bool {
	_, ok := p[name]
	return ok
}

// ParamsFrom returns the params stored by Validate
func ParamsFrom(c *gin.Context) Params {
	if v, ok := c.Get(paramsKey); ok {
		if p, ok := v.(Params); ok {
			return p
		}
	}
	return Params{}
}

// Validate collects request params, checks them against args and stores them
// for the handler. Invalid requests are rejected with 400.
func Validate(args map[string]Arg) gin.HandlerFunc {
	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		params, err := collect(c)
		if err != nil {
			reject(c, "rest_invalid_json", "Invalid JSON body passed.")
			return
		}

		var missing []string
		for _, name := range names {
			if _, ok := params[name]; !ok && args[name].Required {
				missing = append(missing, name)
			}
		}
		if len(missing) > 0 {
			reject(c, "rest_missing_callback_param", "Missing parameter(s): "+strings.Join(missing, ", "))
			return
		}

		for _, name := range names {
			v, ok := params[name]
			if !ok {
				continue
			}
			arg := args[name]

			coerced, err := coerce(v, arg.Type)
			if err != nil {
				reject(c, "rest_invalid_param", fmt.Sprintf("Invalid parameter(s): %s (%v)", name, err))
				return
			}
			params[name] = coerced

			if arg.NonEmpty && coerced == "" {
				reject(c, "rest_invalid_param", fmt.Sprintf("Invalid parameter(s): %s must not be empty", name))
				return
			}

			if arg.Enum == nil {
				continue
			}
			allowed, err := arg.Enum(c.Request.Context())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					model.NewAPIResponse("rest_internal_error", "Could not load allowed values", http.StatusInternalServerError))
				return
			}
			if s, _ := coerced.(string); !slices.Contains(allowed, s) {
				reject(c, "rest_invalid_param",
					fmt.Sprintf("Invalid parameter(s): %s is not one of %s", name, strings.Join(allowed, ", ")))
				return
			}
		}

		c.Set(paramsKey, params)
		c.Next()
	}
}

// collect merges query, form and JSON body params; later sources win
func collect(c *gin.Context) (Params, error) {
	params := Params{}
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			params[k] = v[0]
		}
	}

	switch c.ContentType() {
	case binding.MIMEJSON:
		if c.Request.Body == nil {
			break
		}
		dec := json.NewDecoder(c.Request.Body)
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		for k, v := range body {
			if v != nil {
				params[k] = v
			}
		}
	case binding.MIMEPOSTForm, binding.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, err
		}
		for k, v := range c.Request.PostForm {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
	}
	return params, nil
}

func coerce(v any, t ArgType) (any, error) {
	switch t {
	case TypeInteger:
		var raw string
		switch n := v.(type) {
		case json.Number:
			raw = n.String()
		case string:
			raw = strings.TrimSpace(n)
		default:
			return nil, errors.New("not an integer")
		}
		return parseInteger(raw)
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return nil, errors.New("not a string")
	}
	return v, nil
}

// parseInteger accepts whole numbers, including ones written as 42.0
func parseInteger(raw string) (int64, error) {
	if i, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, errors.New("not an integer")
	}
	return int64(f), nil
}

func reject(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, model.NewAPIResponse(code, message, http.StatusBadRequest))
}
