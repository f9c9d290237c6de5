package parcel

import "sync"

const (
	poolInitCap = 256
	poolMaxCap  = 64 << 10
)

var parcelPool = sync.Pool{
	New: func() any {
		return &Parcel{data: make([]byte, 0, poolInitCap)}
	},
}

func obtain() *Parcel {
	return parcelPool.Get().(*Parcel)
}

// Recycle returns the parcel to the pool. The parcel and any slice obtained
// from Bytes or Objects must not be used afterwards.
func (p *Parcel) Recycle() {
	if p == nil || cap(p.data) > poolMaxCap {
		return
	}
	p.Reset()
	parcelPool.Put(p)
}
