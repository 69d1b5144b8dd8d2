package directions

import "github.com/reoring/skema"

var responseCodec = skema.MustCodec[Response](Registry, SchemaResponse)

// Decode parses a directions response. Validation failures are
// skema.Issues carrying a JSON Pointer to the offending value.
func Decode(data []byte, opts ...skema.DecodeOpt) (Response, error) {
	return responseCodec.Decode(data, opts...)
}

// Encode validates resp against the response schema and serializes it with
// the upstream wire names.
func Encode(resp Response, opts ...skema.EncodeOpt) ([]byte, error) {
	return responseCodec.Encode(resp, opts...)
}

// DecodeAs decodes data against any schema of Registry into a T.
func DecodeAs[T any](data []byte, schema string, opts ...skema.DecodeOpt) (T, error) {
	c, err := skema.NewCodec[T](Registry, schema)
	if err != nil {
		var zero T
		return zero, err
	}
	return c.Decode(data, opts...)
}
