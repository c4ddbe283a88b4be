package ambient

import "errors"

var (
	// ErrInvalidRequestOrder is returned by NewReader when RequestOrder holds
	// a letter other than G, P or C, or repeats one.
	ErrInvalidRequestOrder = errors.New("ambient: invalid request order")

	// ErrInvalidQuery reports a malformed query string. The well-formed part
	// of the query is still available in the snapshot.
	ErrInvalidQuery = errors.New("ambient: invalid query string")

	// ErrInvalidBody reports a request body that could not be parsed as a
	// form. A url-encoded body keeps its well-formed pairs in POST; any other
	// failure leaves POST empty.
	ErrInvalidBody = errors.New("ambient: invalid form body")
)
