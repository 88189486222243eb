package client

import (
	"fmt"
)

// Kind вид отказа движка оценки
type Kind string

const (
	KindUnreachable Kind = "upstream_unreachable"
	KindTimeout     Kind = "upstream_timeout"
	KindUpstream    Kind = "upstream_error"
	KindMalformed   Kind = "malformed_upstream_response"
)

// GatewayError ошибка обращения к движку оценки.
// StatusCode и Body заполняются только для KindUpstream.
type GatewayError struct {
	Kind       Kind
	StatusCode int
	Body       string
	Err        error
}

func (e *GatewayError) Error() string {
	switch {
	case e.Kind == KindUpstream:
		return fmt.Sprintf("%s: status %d, body: %s", e.Kind, e.StatusCode, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по виду, что позволяет писать errors.Is(err, ErrUpstreamTimeout)
func (e *GatewayError) Is(target error) bool {
	t, ok := target.(*GatewayError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrUpstreamUnreachable       = &GatewayError{Kind: KindUnreachable}
	ErrUpstreamTimeout           = &GatewayError{Kind: KindTimeout}
	ErrUpstreamError             = &GatewayError{Kind: KindUpstream}
	ErrMalformedUpstreamResponse = &GatewayError{Kind: KindMalformed}
)

// maxBodyExcerpt ограничение на размер тела ответа в ошибке
const maxBodyExcerpt = 512

func excerpt(body []byte) string {
	if len(body) <= maxBodyExcerpt {
		return string(body)
	}
	return string(body[:maxBodyExcerpt]) + "..."
}
