package store

import (
	"io"

	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// Counter 一个命名的计数器
type Counter struct {
	Name  string
	Value int64
}

// Counters 有序的计数器列表,JSON编码为key顺序与列表顺序一致的对象
type Counters []Counter

// Map 转换为map,丢失顺序
func (p Counters) Map() map[string]int64 {
	m := make(map[string]int64, len(p))
	for _, c := range p {
		m[c.Name] = c.Value
	}
	return m
}

// Names 按顺序返回所有的名称
func (p Counters) Names() []string {
	names := make([]string, 0, len(p))
	for _, c := range p {
		names = append(names, c.Name)
	}
	return names
}

// MarshalJSON implements json.Marshaler
func (p Counters) MarshalJSON() ([]byte, error) {
	stream := jsonAPI.BorrowStream(nil)
	defer jsonAPI.ReturnStream(stream)

	stream.WriteObjectStart()
	for i, c := range p {
		if i > 0 {
			stream.WriteMore()
		}
		stream.WriteObjectField(c.Name)
		stream.WriteInt64(c.Value)
	}
	stream.WriteObjectEnd()
	if stream.Error != nil {
		return nil, stream.Error
	}
	return append([]byte(nil), stream.Buffer()...), nil
}

// UnmarshalJSON implements json.Unmarshaler, keeping the key order of the object
func (p *Counters) UnmarshalJSON(data []byte) error {
	iter := jsonAPI.BorrowIterator(data)
	defer jsonAPI.ReturnIterator(iter)

	counters := Counters{}
	iter.ReadMapCB(func(it *jsoniter.Iterator, field string) bool {
		counters = append(counters, Counter{Name: field, Value: it.ReadInt64()})
		return it.Error == nil
	})
	if iter.Error != nil && iter.Error != io.EOF {
		return iter.Error
	}
	*p = counters
	return nil
}
