package magic

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/aista/magic-console/internal/errs"
)

// TerminalSession Одна терминальная сессия на бэкенде. Канал именуется
// случайной строкой, чтобы параллельные сессии (и окна) не пересекались.
type TerminalSession struct {
	bridge  SocketBridge
	channel string
}

// NewTerminalSession Запуск терминальной сессии в указанной папке бэкенда.
func NewTerminalSession(ctx context.Context, bridge SocketBridge, folder string) (*TerminalSession, error) {
	channel := "terminal-" + uuid.NewString()

	args := map[string]any{"folder": folder}
	if err := bridge.Start(ctx, channel, args); err != nil {
		return nil, fmt.Errorf("ошибка запуска терминала: %w", err)
	}

	return &TerminalSession{
		bridge:  bridge,
		channel: channel,
	}, nil
}

// Channel Имя канала сессии.
func (t *TerminalSession) Channel() string {
	return t.channel
}

// Command Отправка команды в терминал. Перевод строки в команде запрещён:
// одна команда - один вызов.
func (t *TerminalSession) Command(ctx context.Context, cmd string) error {
	if strings.ContainsAny(cmd, "\r\n") {
		return errs.NewErrInvalidArgument("cmd", fmt.Errorf("команда не должна содержать перевод строки"))
	}

	return t.bridge.Send(ctx, t.channel, map[string]any{"cmd": cmd})
}

// Stop Завершение терминальной сессии.
func (t *TerminalSession) Stop(ctx context.Context) error {
	return t.bridge.Stop(ctx, t.channel)
}
