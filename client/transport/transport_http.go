package transport

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// HTTPError is returned when the server answers with a non 2xx status
// and a body that does not carry GraphQL errors
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("returned error %v: %s", e.StatusCode, e.Body)
}

type HttpRequestOption func(req *http.Request)

type Http struct {
	URL string
	// Client defaults to http.DefaultClient
	Client         *http.Client
	RequestOptions []HttpRequestOption
}

func (h *Http) client() *http.Client {
	if h.Client == nil {
		return http.DefaultClient
	}

	return h.Client
}

func (h *Http) request(gqlreq Request) (*OperationResponse, error) {
	bodyb, err := json.Marshal(NewOperationRequestFromRequest(gqlreq))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(gqlreq.Context, http.MethodPost, h.URL, bytes.NewReader(bodyb))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	for _, ro := range h.RequestOptions {
		ro(req)
	}

	for k, vs := range gqlreq.Header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vs...)
	}

	res, err := h.client().Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}

	var opres OperationResponse
	err = json.Unmarshal(data, &opres)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		if err == nil && len(opres.Errors) > 0 {
			return &opres, nil
		}

		return nil, &HTTPError{
			StatusCode: res.StatusCode,
			Body:       data,
		}
	}

	if err != nil {
		return nil, err
	}

	return &opres, nil
}

func (h *Http) Request(req Request) Response {
	opres, err := h.request(req)
	if err != nil {
		return NewErrorResponse(err)
	}

	return NewSingleResponse(*opres)
}
