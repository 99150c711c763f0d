package repository

// Observer receives storage events worth counting. The metrics package
// provides the production implementation.
type Observer interface {
	StoreFallback(collection, op string)
	CacheLookup(kind string, hit bool)
}

type nopObserver struct{}

func (nopObserver) StoreFallback(string, string) {}
func (nopObserver) CacheLookup(string, bool)     {}
