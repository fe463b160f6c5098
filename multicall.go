package supervisor

// MulticallCall is one member of a system.multicall batch
type MulticallCall struct {
	MethodName string `xmlrpc:"methodName" json:"methodName"`
	Params     []any  `xmlrpc:"params" json:"params"`
}

// NewMulticallCall builds a batch member for namespace.method
func NewMulticallCall(namespace, method string, params ...any) MulticallCall {
	if params == nil {
		params = []any{}
	}
	return MulticallCall{MethodName: ProcedureName(namespace, method), Params: params}
}

// MulticallResult is one decoded member of a multicall response.
// Exactly one of Value or Fault is meaningful.
type MulticallResult struct {
	Value any
	Fault *Fault
}

// DecodeMulticallResults splits raw multicall entries into values and
// classified faults, keeping their order. An entry that is neither a
// one-element array nor a fault record fails with ErrDecode.
func DecodeMulticallResults(raw []any) ([]MulticallResult, error) {
	results := make([]MulticallResult, 0, len(raw))
	for _, entry := range raw {
		switch v := entry.(type) {
		case []any:
			if len(v) != 1 {
				return nil, decodeError(NamespaceSystem, methodMulticall, entry)
			}
			results = append(results, MulticallResult{Value: v[0]})
		case map[string]any:
			code, ok := toInt(v["faultCode"])
			if !ok {
				return nil, decodeError(NamespaceSystem, methodMulticall, entry)
			}
			msg, _ := v["faultString"].(string)
			results = append(results, MulticallResult{Fault: Classify(code, msg)})
		default:
			return nil, decodeError(NamespaceSystem, methodMulticall, entry)
		}
	}
	return results, nil
}
