// Package learning holds the wire contract of the learning.Learning service.
//
// Messages mirror learning.proto and are encoded with the protobuf wire format,
// so stock protobuf clients interoperate with the service.
package learning

import (
	"fmt"
	"math"
	"unicode/utf8"

	"google.golang.org/protobuf/encoding/protowire"
)

// ErrInvalidUTF8 rejects string fields that proto3 peers would refuse to decode.
var ErrInvalidUTF8 = fmt.Errorf("string field contains invalid UTF-8")

// wireMessage is implemented by every message of learning.proto.
type wireMessage interface {
	marshalWire() ([]byte, error)
	unmarshalWire(b []byte) error
}

type PingRequest struct {
	Message string
}

func (m *PingRequest) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

func (m *PingRequest) marshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Message)
}

func (m *PingRequest) unmarshalWire(b []byte) error {
	*m = PingRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.BytesType {
			return consumeString(b, &m.Message)
		}
		return skipField, nil
	})
}

type PongResponse struct {
	Message string
}

func (m *PongResponse) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

func (m *PongResponse) marshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Message)
}

func (m *PongResponse) unmarshalWire(b []byte) error {
	*m = PongResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.BytesType {
			return consumeString(b, &m.Message)
		}
		return skipField, nil
	})
}

type ComputeAverageRequest struct {
	Number int32
}

func (m *ComputeAverageRequest) GetNumber() int32 {
	if m != nil {
		return m.Number
	}
	return 0
}

func (m *ComputeAverageRequest) marshalWire() ([]byte, error) {
	return appendVarint(nil, 1, uint64(int64(m.Number))), nil
}

func (m *ComputeAverageRequest) unmarshalWire(b []byte) error {
	*m = ComputeAverageRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.VarintType {
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.Number = int32(v)
			return n, nil
		}
		return skipField, nil
	})
}

type ComputeAverageResponse struct {
	Average float64
}

func (m *ComputeAverageResponse) GetAverage() float64 {
	if m != nil {
		return m.Average
	}
	return 0
}

func (m *ComputeAverageResponse) marshalWire() ([]byte, error) {
	if m.Average == 0 && !math.Signbit(m.Average) {
		return nil, nil
	}
	b := protowire.AppendTag(nil, 1, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, math.Float64bits(m.Average)), nil
}

func (m *ComputeAverageResponse) unmarshalWire(b []byte) error {
	*m = ComputeAverageResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.Fixed64Type {
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return 0, protowire.ParseError(n)
			}
			m.Average = math.Float64frombits(v)
			return n, nil
		}
		return skipField, nil
	})
}

type PrimeNumberDecompositionRequest struct {
	Number int64
}

func (m *PrimeNumberDecompositionRequest) GetNumber() int64 {
	if m != nil {
		return m.Number
	}
	return 0
}

func (m *PrimeNumberDecompositionRequest) marshalWire() ([]byte, error) {
	return appendVarint(nil, 1, uint64(m.Number)), nil
}

func (m *PrimeNumberDecompositionRequest) unmarshalWire(b []byte) error {
	*m = PrimeNumberDecompositionRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.VarintType {
			return consumeInt64(b, &m.Number)
		}
		return skipField, nil
	})
}

type PrimeNumberDecompositionResponse struct {
	PrimeFactor int64
}

func (m *PrimeNumberDecompositionResponse) GetPrimeFactor() int64 {
	if m != nil {
		return m.PrimeFactor
	}
	return 0
}

func (m *PrimeNumberDecompositionResponse) marshalWire() ([]byte, error) {
	return appendVarint(nil, 1, uint64(m.PrimeFactor)), nil
}

func (m *PrimeNumberDecompositionResponse) unmarshalWire(b []byte) error {
	*m = PrimeNumberDecompositionResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.VarintType {
			return consumeInt64(b, &m.PrimeFactor)
		}
		return skipField, nil
	})
}

type ChatRequest struct {
	Message string
}

func (m *ChatRequest) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

func (m *ChatRequest) marshalWire() ([]byte, error) {
	return appendString(nil, 1, m.Message)
}

func (m *ChatRequest) unmarshalWire(b []byte) error {
	*m = ChatRequest{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		if num == 1 && typ == protowire.BytesType {
			return consumeString(b, &m.Message)
		}
		return skipField, nil
	})
}

type ChatResponse struct {
	Username string
	Message  string
}

func (m *ChatResponse) GetUsername() string {
	if m != nil {
		return m.Username
	}
	return ""
}

func (m *ChatResponse) GetMessage() string {
	if m != nil {
		return m.Message
	}
	return ""
}

func (m *ChatResponse) marshalWire() ([]byte, error) {
	b, err := appendString(nil, 1, m.Username)
	if err != nil {
		return nil, err
	}
	return appendString(b, 2, m.Message)
}

func (m *ChatResponse) unmarshalWire(b []byte) error {
	*m = ChatResponse{}
	return consumeFields(b, func(num protowire.Number, typ protowire.Type, b []byte) (int, error) {
		switch {
		case num == 1 && typ == protowire.BytesType:
			return consumeString(b, &m.Username)
		case num == 2 && typ == protowire.BytesType:
			return consumeString(b, &m.Message)
		}
		return skipField, nil
	})
}

// skipField tells consumeFields to skip a field it does not know.
const skipField = -1

// consumeFields walks every field of b. fn returns how many bytes of the value it consumed,
// or skipField for unknown fields, which are discarded like proto3 does for unknown data.
func consumeFields(b []byte, fn func(num protowire.Number, typ protowire.Type, b []byte) (int, error)) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		m, err := fn(num, typ, b)
		if err != nil {
			return err
		}
		if m == skipField {
			m = protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return protowire.ParseError(m)
			}
		}
		b = b[m:]
	}
	return nil
}

func appendString(b []byte, num protowire.Number, v string) ([]byte, error) {
	if v == "" {
		return b, nil
	}
	if !utf8.ValidString(v) {
		return nil, fmt.Errorf("field %d: %w", num, ErrInvalidUTF8)
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v), nil
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func consumeString(b []byte, dst *string) (int, error) {
	v, n := protowire.ConsumeString(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	if !utf8.ValidString(v) {
		return 0, ErrInvalidUTF8
	}
	*dst = v
	return n, nil
}

func consumeInt64(b []byte, dst *int64) (int, error) {
	v, n := protowire.ConsumeVarint(b)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	*dst = int64(v)
	return n, nil
}
