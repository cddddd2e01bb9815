package common

import (
	"errors"
	"reflect"

	"github.com/ugorji/go/codec"
)

var msgpackHandle = &codec.MsgpackHandle{}

func init() {
	msgpackHandle.MapType = reflect.TypeOf(map[string]interface{}(nil))
	msgpackHandle.WriteExt = true
}

// MsgPackEncodeBytes encode data to bytes use msgpack
func MsgPackEncodeBytes(data interface{}) (bytes []byte, err error) {
	enc := codec.NewEncoderBytes(&bytes, msgpackHandle)
	err = enc.Encode(data)
	return
}

// MsgPackDecodeBytes decode bytes to dest use msgpack
func MsgPackDecodeBytes(bytes []byte, dest interface{}) (err error) {
	if len(bytes) == 0 {
		return errors.New("nil bytes to decode")
	}
	dec := codec.NewDecoderBytes(bytes, msgpackHandle)
	err = dec.Decode(dest)
	return
}

// MsgPackMap 按顺序编码为msgpack map的键值对,形如[k1, v1, k2, v2]
type MsgPackMap []interface{}

// MapBySlice 标识codec将MsgPackMap编码为map
func (MsgPackMap) MapBySlice() {}

// Add 追加键值对
func (p MsgPackMap) Add(key string, value interface{}) MsgPackMap {
	return append(p, key, value)
}
