package client

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/bots-against-war/moduli/pkg/result"
)

// DecodeError reports a 2xx response whose body is not the expected JSON.
type DecodeError struct {
	Status int
	Body   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %d response: %v (body: %.200q)", e.Status, e.Err, e.Body)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ToTrivialResult reads and closes resp. Any 2xx status is a success with a nil payload
// regardless of the body; other statuses fail with the body text.
func ToTrivialResult(resp *http.Response) (result.Result[any], error) {
	status, body, err := readResponse(resp)
	if err != nil {
		return result.Result[any]{}, err
	}
	return trivialResult(status, body), nil
}

// ToDataResult reads and closes resp. A 2xx body is decoded as JSON into T; other
// statuses fail with the body text.
func ToDataResult[T any](resp *http.Response) (result.Result[T], error) {
	status, body, err := readResponse(resp)
	if err != nil {
		return result.Result[T]{}, err
	}
	return dataResult[T](status, body)
}

func readResponse(resp *http.Response) (int, []byte, error) {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func trivialResult(status int, body []byte) result.Result[any] {
	if !isSuccess(status) {
		return result.Err[any](string(body))
	}
	return result.Ok[any](nil)
}

func dataResult[T any](status int, body []byte) (result.Result[T], error) {
	if !isSuccess(status) {
		return result.Err[T](string(body)), nil
	}
	var data T
	if err := json.Unmarshal(body, &data); err != nil {
		return result.Result[T]{}, &DecodeError{Status: status, Body: string(body), Err: err}
	}
	return result.Ok(data), nil
}
