package infrastructure

import (
	"github.com/google/wire"

	"github.com/todoapp/backend/internal/infrastructure/config"
	"github.com/todoapp/backend/internal/infrastructure/mdns"
	"github.com/todoapp/backend/internal/infrastructure/notification"
	"github.com/todoapp/backend/internal/infrastructure/storage"
	"github.com/todoapp/backend/internal/infrastructure/watcher"
	"github.com/todoapp/backend/internal/infrastructure/websocket"
)

// ProviderSet Infrastructure 层总 ProviderSet
var ProviderSet = wire.NewSet(
	config.ProviderSet,
	storage.ProviderSet,
	watcher.ProviderSet,
	websocket.ProviderSet,
	notification.ProviderSet,
	mdns.ProviderSet,
)
