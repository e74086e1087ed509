package mdns

import "github.com/google/wire"

// ProviderSet mDNS 广播 ProviderSet
var ProviderSet = wire.NewSet(NewAdvertiser)
