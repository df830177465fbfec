// Package trigger turns API Gateway / Lambda function URL events into liters
// operations and formats their responses.
package trigger

import (
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/aws/aws-lambda-go/events"
)

// Response is what both handlers return. Its JSON form is valid for REST API
// (v1) and HTTP API / function URL (v2) integrations.
type Response = events.APIGatewayProxyResponse

// Request decodes either trigger shape: REST API events carry httpMethod,
// HTTP API and function URL events carry requestContext.http.method.
type Request struct {
	HTTPMethod            string            `json:"httpMethod"`
	Path                  string            `json:"path"`
	RawPath               string            `json:"rawPath"`
	Headers               map[string]string `json:"headers"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
	PathParameters        map[string]string `json:"pathParameters"`
	RequestContext        RequestContext    `json:"requestContext"`
	Body                  string            `json:"body"`
	IsBase64Encoded       bool              `json:"isBase64Encoded"`
}

type RequestContext struct {
	RequestID string      `json:"requestId"`
	HTTP      HTTPContext `json:"http"`
}

type HTTPContext struct {
	Method string `json:"method"`
	Path   string `json:"path"`
}

// Method returns the upper-cased HTTP method from whichever shape carries it.
func (r Request) Method() string {
	method := r.HTTPMethod
	if method == "" {
		method = r.RequestContext.HTTP.Method
	}
	return strings.ToUpper(strings.TrimSpace(method))
}

// Resource returns the request path for logging.
func (r Request) Resource() string {
	switch {
	case r.Path != "":
		return r.Path
	case r.RawPath != "":
		return r.RawPath
	default:
		return r.RequestContext.HTTP.Path
	}
}

// DecodedBody returns the raw body, base64-decoded when the platform encoded it.
func (r Request) DecodedBody() ([]byte, error) {
	if !r.IsBase64Encoded {
		return []byte(r.Body), nil
	}
	b, err := base64.StdEncoding.DecodeString(r.Body)
	if err != nil {
		return nil, fmt.Errorf("decode base64 body: %w", err)
	}
	return b, nil
}
