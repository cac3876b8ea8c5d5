package netutils

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/prometheus-community/pro-bing"
)

const DefaultHostTimeout = 2 * time.Second

// NetworkChecker Реализация проверки сетевой доступности бэкендов.
type NetworkChecker struct{}

// NewNetworkChecker Конструктор.
func NewNetworkChecker() *NetworkChecker {
	return &NetworkChecker{}
}

// CheckTCP Проверяет доступность бэкенда попыткой установить TCP-соединение
// с его хостом и портом. Если timeout <= 0 - используется DefaultHostTimeout.
func (nc *NetworkChecker) CheckTCP(ctx context.Context, address string, port string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultHostTimeout
	}

	dialer := net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(address, port))
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}

// CheckICMP Проверяет доступность хоста на сетевом уровне ICMP-запросами.
// Полезно, когда порт бэкенда закрыт фаерволом, а сам хост жив.
// Если timeout <= 0 - используется DefaultHostTimeout.
func (nc *NetworkChecker) CheckICMP(ctx context.Context, address string, timeout time.Duration) bool {
	if timeout <= 0 {
		timeout = DefaultHostTimeout
	}

	pinger, err := probing.NewPinger(address)
	if err != nil {
		return false
	}

	// для raw-сокетов в Linux нужен CAP_NET_RAW
	pinger.SetPrivileged(true)
	pinger.Count = 3
	pinger.Timeout = timeout

	done := make(chan bool, 1)

	go func() {
		defer close(done)

		if runErr := pinger.Run(); runErr != nil {
			done <- false
			return
		}

		done <- pinger.Statistics().PacketsRecv > 0
	}()

	select {
	case <-ctx.Done():
		pinger.Stop()
		return false
	case ok := <-done:
		return ok
	}
}

// SplitHostPort Разбор URL бэкенда на хост и порт для сетевых проверок.
// Если порт в URL не указан - подставляется порт схемы по умолчанию.
func SplitHostPort(rawURL string) (string, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", "", err
	}

	host := u.Hostname()
	port := u.Port()

	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		default:
			port = "80"
		}
	}

	return host, port, nil
}
