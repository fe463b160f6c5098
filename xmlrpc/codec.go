package xmlrpc

import (
	"errors"
	"fmt"

	kolo "github.com/kolo/xmlrpc"
)

// EncodeCall builds a methodCall document for method with params in order.
// Structs are encoded as XML-RPC structs named by their `xmlrpc` field tags.
func EncodeCall(method string, params []any) ([]byte, error) {
	body, err := kolo.EncodeMethodCall(method, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedType, err)
	}
	return body, nil
}

// DecodeResponse decodes a methodResponse document. A fault response is
// returned as a *Fault error. Integers decode as int64, arrays as []any and
// structs as map[string]any.
func DecodeResponse(data []byte) (any, error) {
	resp := kolo.Response(data)

	if err := resp.Err(); err != nil {
		var fault kolo.FaultError
		if errors.As(err, &fault) {
			return nil, newFault(fault)
		}
		return nil, fmt.Errorf("%w: fault: %v", ErrMalformedResponse, err)
	}

	var result any
	if err := resp.Unmarshal(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return result, nil
}
