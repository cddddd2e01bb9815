// Package store 提供内存中的命名计数器存储
package store

import (
	"regexp"
	"sort"
	"sync"
)

var namePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidName 名称只能由字母,数字和下划线组成,且不能为空
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Store 内存中的计数器集合,计数器的值总是>=0,可以被并发地访问
type Store struct {
	mu       sync.RWMutex
	counters map[string]int64
}

// New 创建空的Store
func New() *Store {
	return &Store{counters: map[string]int64{}}
}

// Create 创建值为0的计数器
func (p *Store) Create(name string) (int64, error) {
	if !ValidName(name) {
		return 0, InvalidNameErrorf("Invalid counter name '%s'", name)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.counters[name]; ok {
		return 0, AlreadyExistsErrorf("Counter '%s' already exists", name)
	}
	p.counters[name] = 0
	return 0, nil
}

// Get 取得计数器的值
func (p *Store) Get(name string) (int64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	value, ok := p.counters[name]
	if !ok {
		return 0, notFound(name)
	}
	return value, nil
}

// Increment 将计数器加1,返回新值
func (p *Store) Increment(name string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	value, ok := p.counters[name]
	if !ok {
		return 0, notFound(name)
	}
	value++
	p.counters[name] = value
	return value, nil
}

// SetValue 设置计数器的值,value不能为负数
func (p *Store) SetValue(name string, value int64) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.counters[name]; !ok {
		return 0, notFound(name)
	}
	if value < 0 {
		return 0, InvalidArgumentErrorf("Counter value cannot be negative")
	}
	p.counters[name] = value
	return value, nil
}

// Delete 删除计数器
func (p *Store) Delete(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.counters[name]; !ok {
		return notFound(name)
	}
	delete(p.counters, name)
	return nil
}

// ResetOne 将计数器的值置为0
func (p *Store) ResetOne(name string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.counters[name]; !ok {
		return 0, notFound(name)
	}
	p.counters[name] = 0
	return 0, nil
}

// ResetAll 删除所有的计数器
func (p *Store) ResetAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.counters = map[string]int64{}
}

// List 按名称排序的全部计数器
func (p *Store) List() Counters {
	return p.filter(func(int64) bool { return true })
}

// Count 计数器的个数
func (p *Store) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.counters)
}

// Total 所有计数器的值之和
func (p *Store) Total() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	var total int64
	for _, v := range p.counters {
		total += v
	}
	return total
}

// TopN 值最大的n个计数器,按值降序,值相同时按名称升序
func (p *Store) TopN(n int) Counters {
	return p.rank(n, func(a, b Counter) bool {
		return a.Value > b.Value
	})
}

// BottomN 值最小的n个计数器,按值升序,值相同时按名称升序
func (p *Store) BottomN(n int) Counters {
	return p.rank(n, func(a, b Counter) bool {
		return a.Value < b.Value
	})
}

// GreaterThan 值大于threshold的计数器,按名称排序
func (p *Store) GreaterThan(threshold int64) Counters {
	return p.filter(func(v int64) bool { return v > threshold })
}

// LessThan 值小于threshold的计数器,按名称排序
func (p *Store) LessThan(threshold int64) Counters {
	return p.filter(func(v int64) bool { return v < threshold })
}

func (p *Store) filter(accept func(value int64) bool) Counters {
	p.mu.RLock()
	counters := make(Counters, 0, len(p.counters))
	for name, value := range p.counters {
		if accept(value) {
			counters = append(counters, Counter{Name: name, Value: value})
		}
	}
	p.mu.RUnlock()

	sort.Slice(counters, func(i, j int) bool {
		return counters[i].Name < counters[j].Name
	})
	return counters
}

// rank 对名称排序后的快照做稳定排序,保证值相同的计数器按名称升序
func (p *Store) rank(n int, before func(a, b Counter) bool) Counters {
	if n <= 0 {
		return Counters{}
	}
	counters := p.List()
	sort.SliceStable(counters, func(i, j int) bool {
		return before(counters[i], counters[j])
	})
	if n < len(counters) {
		counters = counters[:n]
	}
	return counters
}

func notFound(name string) error {
	return NotFoundErrorf("Counter '%s' not found", name)
}
