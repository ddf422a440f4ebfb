package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb/iterator"
)

// cursor adapts a goleveldb iterator. Key and Value are only valid until the
// next positioning call.
type cursor struct {
	iterator.Iterator
}

func (c *cursor) Error() error {
	return convertError(c.Iterator.Error())
}
