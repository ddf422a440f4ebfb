package storage

// BatchReplay receives the operations of a Batch in the order they were added.
type BatchReplay interface {
	Put(key, value []byte)
	Delete(key []byte)
}

type batchOp struct {
	del   bool
	key   []byte
	value []byte
}

// Batch collects writes that an engine applies atomically.
type Batch struct {
	ops  []batchOp
	size int
}

func NewBatch() *Batch {
	return &Batch{}
}

// Put copies key and value into the batch.
func (b *Batch) Put(key, value []byte) {
	b.ops = append(b.ops, batchOp{
		key:   append([]byte(nil), key...),
		value: append([]byte(nil), value...),
	})
	b.size += len(key) + len(value)
}

func (b *Batch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{del: true, key: append([]byte(nil), key...)})
	b.size += len(key)
}

// Len returns the number of operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// ValueSize returns the number of key and value bytes held by the batch.
func (b *Batch) ValueSize() int {
	return b.size
}

func (b *Batch) Reset() {
	b.ops = b.ops[:0]
	b.size = 0
}

func (b *Batch) Replay(r BatchReplay) {
	for _, op := range b.ops {
		if op.del {
			r.Delete(op.key)
			continue
		}
		r.Put(op.key, op.value)
	}
}
