package enml

// Resource is the externally supplied attachment record a media reference
// resolves to by content hash. The converter only ever reads these - they
// are created and (eventually) resolved by the upload pipeline upstream.
type Resource struct {
	Hash     string // MD5 of the attachment content, hex encoded
	Mime     string
	Filename string
	URL      string // resolved location; empty until the upload pipeline fills it
}

// Resolver looks attachment records up by content hash. Implementations
// must be read-only and safe for concurrent lookups.
type Resolver interface {
	Lookup(hash string) (*Resource, bool)
}

// ResourceMap is a map-backed Resolver. Populate it before conversion and
// do not mutate it while conversions are running.
type ResourceMap map[string]*Resource

// Lookup implements Resolver.
func (m ResourceMap) Lookup(hash string) (*Resource, bool) {
	r, ok := m[hash]
	return r, ok
}
