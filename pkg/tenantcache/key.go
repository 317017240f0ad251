package tenantcache

import "strconv"

// TenantID is the externally assigned numeric tenant identifier.
type TenantID int64

func (id TenantID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Key identifies a cache slot. Keys built from equal tenant ids are equal and
// interchangeable, so callers build a fresh Key per call.
type Key struct {
	TenantID TenantID
}

// KeyFor returns the key of the given tenant.
func KeyFor(id TenantID) Key {
	return Key{TenantID: id}
}

func (k Key) String() string {
	return k.TenantID.String()
}
