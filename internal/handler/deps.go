package handler

import (
	"github.com/kurenai-11/socket-chat-app/internal/app/chat"
	"github.com/kurenai-11/socket-chat-app/internal/app/user"
	"github.com/kurenai-11/socket-chat-app/internal/configs"
)

// AppDeps bundles the collaborators injected into every handler.
type AppDeps struct {
	Hub    *chat.Hub
	Config *configs.AppConfig
	Users  user.Store
}
