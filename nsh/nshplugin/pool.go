package nshplugin

// pool stores items at stable indices, reusing freed indices.
type pool[T any] struct {
	items []T
	used  []bool
	free  []uint32
}

func (p *pool[T]) alloc(item T) (index uint32) {
	if n := len(p.free); n > 0 {
		index, p.free = p.free[n-1], p.free[:n-1]
		p.items[index], p.used[index] = item, true
		return index
	}
	p.items = append(p.items, item)
	p.used = append(p.used, true)
	return uint32(len(p.items) - 1)
}

func (p *pool[T]) release(index uint32) {
	var zero T
	p.items[index], p.used[index] = zero, false
	p.free = append(p.free, index)
}

func (p *pool[T]) get(index uint32) (item T, ok bool) {
	if int64(index) >= int64(len(p.items)) || !p.used[index] {
		return item, false
	}
	return p.items[index], true
}

func (p *pool[T]) len() int {
	return len(p.items) - len(p.free)
}

// each visits items in index order.
func (p *pool[T]) each(f func(index uint32, item T)) {
	for i, item := range p.items {
		if p.used[i] {
			f(uint32(i), item)
		}
	}
}
