package common

import (
	"github.com/nspcc-dev/neo-go/pkg/interop/native/std"
	"github.com/nspcc-dev/neo-go/pkg/interop/storage"
)

// SetSerialized serializes data and puts it into contract storage.
func SetSerialized(ctx storage.Context, key any, value any) {
	data := std.Serialize(value)
	storage.Put(ctx, key, data)
}

// GetSerialized returns deserialized value stored by key or nil if there is
// no such key.
func GetSerialized(ctx storage.Context, key any) any {
	data := storage.Get(ctx, key)
	if data == nil {
		return nil
	}

	return std.Deserialize(data.([]byte))
}
