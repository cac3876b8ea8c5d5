package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aista/magic-console/internal/errs"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/storage"
	"github.com/aista/magic-console/internal/token"
)

//go:generate mockgen -destination=mocks/mock_backend_api.go -package=mocks . BackendAPI

// BackendAPI Контракт вызовов бэкенда, необходимый менеджеру сессий.
// Вызовы принимают явный базовый URL: менеджер обновляет токены в том числе
// не-активных бэкендов.
type BackendAPI interface {
	Authenticate(ctx context.Context, baseURL, username, password string) (string, error)
	Refresh(ctx context.Context, baseURL, rawToken string) (string, error)
	Endpoints(ctx context.Context, baseURL, rawToken string) ([]models.Endpoint, error)
	Status(ctx context.Context, baseURL, rawToken string) (*magic.StatusResponse, error)
	Version(ctx context.Context, baseURL, rawToken string) (string, error)
}

const (
	// refreshMargin За сколько до истечения токена выполняется тихое обновление.
	refreshMargin = 60 * time.Second
	// minRefreshDelay Нижняя граница задержки задачи обновления.
	minRefreshDelay = time.Second
	// apiCallTimeout Таймаут фоновых вызовов бэкенда (обновление токена, опрос статуса).
	apiCallTimeout = 30 * time.Second
)

// Manager Единственный владелец списка бэкендов и их сессий: кто активен,
// у кого какой токен и когда его пора обновить. Все мутации проходят через
// менеджер, подписчики узнают об изменениях через сигналы "по уровню".
//
// Инварианты:
//   - первый бэкенд списка - активный;
//   - на один бэкенд взведена максимум одна задача обновления токена
//     (отмена перед перевзводом централизована в armRefreshLocked);
//   - каждая мутация сохраняется в хранилище.
type Manager struct {
	mu       sync.Mutex
	backends []*models.Backend
	// timers Взведённые задачи обновления токена, ключ - URL бэкенда.
	timers map[string]*refreshTask
	// fetchGen Счётчик поколений запросов метаданных эндпоинтов на бэкенд.
	// Опоздавший ответ устаревшего поколения отбрасывается.
	fetchGen map[string]uint64

	api          BackendAPI
	store        storage.Storage
	systemPrefix string

	// Сигналы состояния сессии. Все - "по уровню": поздний подписчик сразу
	// получает последнее значение.
	AuthChanged      *Signal[bool]
	ActiveChanged    *Signal[string]
	EndpointsFetched *Signal[[]models.Endpoint]
	StatusRetrieved  *Signal[models.BackendStatus]
	VersionRetrieved *Signal[string]
}

// NewManager Конструктор менеджера сессий.
func NewManager(api BackendAPI, store storage.Storage, systemPrefix string) *Manager {
	return &Manager{
		timers:           make(map[string]*refreshTask),
		fetchGen:         make(map[string]uint64),
		api:              api,
		store:            store,
		systemPrefix:     systemPrefix,
		AuthChanged:      NewSignal[bool](),
		ActiveChanged:    NewSignal[string](),
		EndpointsFetched: NewSignal[[]models.Endpoint](),
		StatusRetrieved:  NewSignal[models.BackendStatus](),
		VersionRetrieved: NewSignal[string](),
	}
}

// Load Восстановление списка бэкендов из хранилища при старте.
// Для бэкендов с ещё действующим токеном сразу взводятся задачи обновления.
func (m *Manager) Load(ctx context.Context) error {
	loaded, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	m.mu.Lock()

	m.backends = make([]*models.Backend, 0, len(loaded))
	for i := range loaded {
		b := loaded[i]
		m.backends = append(m.backends, &b)
	}

	for _, b := range m.backends {
		if b.HasToken() {
			m.armRefreshLocked(b)
		}
	}

	activeURL := ""
	authenticated := false
	if len(m.backends) > 0 {
		activeURL = m.backends[0].URL
		authenticated = m.isAuthenticatedLocked(m.backends[0])
	}

	m.mu.Unlock()

	m.ActiveChanged.Publish(activeURL)
	m.AuthChanged.Publish(authenticated)

	return nil
}

// List Копия списка бэкендов (без паролей).
func (m *Manager) List() []models.Backend {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := make([]models.Backend, 0, len(m.backends))
	for _, b := range m.backends {
		clone := *b
		clone.Password = ""
		list = append(list, clone)
	}

	return list
}

// Active Базовый URL и токен активного бэкенда.
// Реализует magic.BackendSource; ok == false - активного бэкенда нет.
func (m *Manager) Active() (string, string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.backends) == 0 {
		return "", "", false
	}

	return m.backends[0].URL, m.backends[0].Token, true
}

// ActiveBackend Копия активного бэкенда (без пароля) или nil.
func (m *Manager) ActiveBackend() *models.Backend {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.backends) == 0 {
		return nil
	}

	clone := *m.backends[0]
	clone.Password = ""

	return &clone
}

// ActiveToken Декодированный токен активного бэкенда или nil.
// Реализует authz.SessionState.
func (m *Manager) ActiveToken() *token.Token {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.backends) == 0 || !m.backends[0].HasToken() {
		return nil
	}

	t, err := token.Decode(m.backends[0].Token)
	if err != nil {
		return nil
	}

	return t
}

// ActiveEndpoints Кэш метаданных эндпоинтов активного бэкенда.
func (m *Manager) ActiveEndpoints() []models.Endpoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.backends) == 0 {
		return nil
	}

	return m.backends[0].Endpoints
}

// Upsert Добавление нового бэкенда либо обновление существующего (по URL).
func (m *Manager) Upsert(ctx context.Context, input models.Backend) (*models.Backend, error) {
	input.URL = models.NormalizeURL(input.URL)

	if err := input.CreateValidation(); err != nil {
		return nil, err
	}

	m.mu.Lock()

	b := m.findLocked(input.URL)
	if b == nil {
		b = &models.Backend{
			URL:       input.URL,
			Status:    models.StatusUnknown.String(),
			CreatedAt: time.Now(),
		}
		m.backends = append(m.backends, b)
	}

	b.Username = input.Username
	if input.Password != "" {
		b.Password = input.Password
	}

	m.persistLocked()

	clone := *b
	clone.Password = ""

	m.mu.Unlock()

	return &clone, nil
}

// Activate Переключение активного бэкенда. Закэшированные метаданные
// эндпоинтов и статус переиспользуются; чего не хватает - дозапрашивается
// в фоне (результат применяется по правилу last-wins с проверкой, что бэкенд
// всё ещё активен).
func (m *Manager) Activate(ctx context.Context, url string) error {
	url = models.NormalizeURL(url)

	m.mu.Lock()

	idx := m.indexLocked(url)
	if idx < 0 {
		m.mu.Unlock()
		return errs.NewErrBackendNotFound(url, nil)
	}

	b := m.backends[idx]
	m.backends = append(m.backends[:idx], m.backends[idx+1:]...)
	m.backends = append([]*models.Backend{b}, m.backends...)

	m.persistLocked()

	authenticated := m.isAuthenticatedLocked(b)
	needEndpoints := b.HasToken() && b.Endpoints == nil
	needStatus := authenticated && b.Status == models.StatusUnknown.String() && m.hasRootRoleLocked(b)

	m.mu.Unlock()

	m.ActiveChanged.Publish(url)
	m.AuthChanged.Publish(authenticated)

	if needEndpoints {
		go m.FetchEndpoints(context.Background(), url)
	}

	if needStatus {
		go m.PollStatus(context.Background(), url)
	}

	return nil
}

// Login Аутентификация на активном бэкенде. При успехе устанавливается токен,
// взводится задача обновления, при необходимости запрашиваются метаданные
// эндпоинтов, а для роли root - статус и версия бэкенда.
// При ошибке состояние не меняется и повторных попыток не выполняется.
func (m *Manager) Login(ctx context.Context, username, password string, persistPassword bool) error {
	m.mu.Lock()
	if len(m.backends) == 0 {
		m.mu.Unlock()
		return errs.ErrNotConnected
	}
	url := m.backends[0].URL
	m.mu.Unlock()

	raw, err := m.api.Authenticate(ctx, url, username, password)
	if err != nil {
		return err
	}

	t, err := token.Decode(raw)
	if err != nil {
		return err
	}

	m.mu.Lock()

	b := m.findLocked(url)
	if b == nil {
		// бэкенд удалили, пока шла аутентификация
		m.mu.Unlock()
		return errs.NewErrBackendNotFound(url, nil)
	}

	b.Username = username
	if persistPassword {
		b.Password = password
	} else {
		b.Password = ""
	}
	b.Token = raw

	m.armRefreshLocked(b)
	m.persistLocked()

	needEndpoints := b.Endpoints == nil
	isRoot := t.HasRole("root")

	m.mu.Unlock()

	m.AuthChanged.Publish(true)

	if needEndpoints {
		m.FetchEndpoints(ctx, url)
	}

	if isRoot {
		go m.PollStatus(context.Background(), url)
	}

	return nil
}

// Logout Выход с активного бэкенда: отмена задачи обновления, сброс токена и
// (опционально) сохранённого пароля.
func (m *Manager) Logout(ctx context.Context, destroyPassword bool) error {
	m.mu.Lock()

	if len(m.backends) == 0 {
		m.mu.Unlock()
		return errs.ErrNotConnected
	}

	m.logoutLocked(m.backends[0], destroyPassword)
	m.persistLocked()

	m.mu.Unlock()

	m.AuthChanged.Publish(false)

	return nil
}

// Remove Удаление бэкенда. Задача обновления отменяется до удаления.
// Если удалён активный бэкенд - активным становится следующий (или никакой).
func (m *Manager) Remove(ctx context.Context, url string) error {
	url = models.NormalizeURL(url)

	m.mu.Lock()

	idx := m.indexLocked(url)
	if idx < 0 {
		m.mu.Unlock()
		return errs.NewErrBackendNotFound(url, nil)
	}

	if task, ok := m.timers[url]; ok {
		task.Cancel()
		delete(m.timers, url)
	}

	m.backends = append(m.backends[:idx], m.backends[idx+1:]...)
	m.persistLocked()

	wasActive := idx == 0

	activeURL := ""
	authenticated := false
	if len(m.backends) > 0 {
		activeURL = m.backends[0].URL
		authenticated = m.isAuthenticatedLocked(m.backends[0])
	}

	m.mu.Unlock()

	if wasActive {
		m.ActiveChanged.Publish(activeURL)
		m.AuthChanged.Publish(authenticated)
	}

	return nil
}

// FetchEndpoints Запрос метаданных эндпоинтов бэкенда.
// Ответ применяется по правилу last-wins: опоздавший ответ устаревшего
// поколения (или для уже удалённого бэкенда) отбрасывается. Ошибка запроса
// устанавливает пустой набор эндпоинтов - права деградируют к "нет доступа",
// а не остаются неопределёнными.
func (m *Manager) FetchEndpoints(ctx context.Context, url string) {
	m.mu.Lock()

	b := m.findLocked(url)
	if b == nil {
		m.mu.Unlock()
		return
	}

	m.fetchGen[url]++
	gen := m.fetchGen[url]
	rawToken := b.Token

	m.mu.Unlock()

	endpoints, err := m.api.Endpoints(ctx, url, rawToken)

	m.mu.Lock()

	if m.fetchGen[url] != gen {
		// ответ устаревшего поколения - его уже обогнал более новый запрос
		m.mu.Unlock()
		return
	}

	b = m.findLocked(url)
	if b == nil {
		m.mu.Unlock()
		return
	}

	if err != nil {
		logger.Log.Warn("Не удалось получить метаданные эндпоинтов",
			logger.String("url", url),
			logger.String("err", err.Error()))
		b.Endpoints = []models.Endpoint{}
	} else {
		b.Endpoints = endpoints
	}

	isActive := len(m.backends) > 0 && m.backends[0].URL == url
	applied := b.Endpoints

	m.mu.Unlock()

	// подписчики видят только метаданные активного бэкенда
	if isActive {
		m.EndpointsFetched.Publish(applied)
	}
}

// PollStatus Опрос статуса и версии бэкенда. Ошибки только логируются:
// статус остаётся прежним, повторных попыток нет.
func (m *Manager) PollStatus(ctx context.Context, url string) {
	m.mu.Lock()
	b := m.findLocked(url)
	if b == nil {
		m.mu.Unlock()
		return
	}
	rawToken := b.Token
	m.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, apiCallTimeout)
	defer cancel()

	status := models.StatusOK
	if _, err := m.api.Status(callCtx, url, rawToken); err != nil {
		logger.Log.Warn("Не удалось получить статус бэкенда",
			logger.String("url", url),
			logger.String("err", err.Error()))
		status = models.StatusDegraded
	}

	version, err := m.api.Version(callCtx, url, rawToken)
	if err != nil {
		logger.Log.Warn("Не удалось получить версию бэкенда",
			logger.String("url", url),
			logger.String("err", err.Error()))
	}

	m.mu.Lock()

	b = m.findLocked(url)
	if b == nil {
		m.mu.Unlock()
		return
	}

	b.Status = status.String()
	if version != "" {
		b.Version = version
	}

	isActive := len(m.backends) > 0 && m.backends[0].URL == url

	m.mu.Unlock()

	if isActive {
		m.StatusRetrieved.Publish(models.BackendStatus{URL: url, Status: status, Version: version})
		if version != "" {
			m.VersionRetrieved.Publish(version)
		}
	}
}

// Close Отмена всех взведённых задач обновления.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for url, task := range m.timers {
		task.Cancel()
		delete(m.timers, url)
	}
}

// Поиск бэкенда по URL. Вызывается под мьютексом.
func (m *Manager) findLocked(url string) *models.Backend {
	idx := m.indexLocked(url)
	if idx < 0 {
		return nil
	}

	return m.backends[idx]
}

func (m *Manager) indexLocked(url string) int {
	for i, b := range m.backends {
		if b.URL == url {
			return i
		}
	}

	return -1
}

func (m *Manager) isAuthenticatedLocked(b *models.Backend) bool {
	if !b.HasToken() {
		return false
	}

	t, err := token.Decode(b.Token)

	return err == nil && !t.IsExpired()
}

func (m *Manager) hasRootRoleLocked(b *models.Backend) bool {
	if !b.HasToken() {
		return false
	}

	t, err := token.Decode(b.Token)

	return err == nil && t.HasRole("root")
}

// Сброс сессии бэкенда. Вызывается под мьютексом.
func (m *Manager) logoutLocked(b *models.Backend, destroyPassword bool) {
	if task, ok := m.timers[b.URL]; ok {
		task.Cancel()
		delete(m.timers, b.URL)
	}

	b.Token = ""
	if destroyPassword {
		b.Password = ""
	}
}

// armRefreshLocked Взведение задачи обновления токена бэкенда.
// Единственное место, где взводится задача: сначала отменяется уже взведённая,
// поэтому на бэкенд никогда не приходится больше одной задачи.
// Вызывается под мьютексом.
func (m *Manager) armRefreshLocked(b *models.Backend) {
	if task, ok := m.timers[b.URL]; ok {
		task.Cancel()
		delete(m.timers, b.URL)
	}

	t, err := token.Decode(b.Token)
	if err != nil {
		return
	}

	url := b.URL
	m.timers[url] = newRefreshTask(refreshDelay(t), func(fired *refreshTask) {
		m.refreshFired(url, fired)
	})
}

// refreshDelay Задержка до тихого обновления: за refreshMargin до истечения
// токена, но не раньше minRefreshDelay.
func refreshDelay(t *token.Token) time.Duration {
	delay := time.Until(t.ExpiresAt()) - refreshMargin
	if delay < minRefreshDelay {
		return minRefreshDelay
	}

	return delay
}

// refreshFired Срабатывание задачи обновления. Если токен к этому моменту уже
// истёк - сразу выход из сессии без попытки обновления. Ошибка обновления
// также деградирует к чистому "разлогинен": полуживых сессий и повторных
// попыток нет.
func (m *Manager) refreshFired(url string, fired *refreshTask) {
	m.mu.Lock()

	if m.timers[url] != fired {
		// пока колбэк ждал мьютекс, задачу отменили и перевзвели (повторный
		// login) - срабатывание устарело, взведённую задачу не трогаем
		m.mu.Unlock()
		return
	}
	delete(m.timers, url)

	b := m.findLocked(url)
	if b == nil {
		m.mu.Unlock()
		return
	}

	t, err := token.Decode(b.Token)
	if err != nil || t.IsExpired() {
		m.logoutLocked(b, false)
		m.persistLocked()
		isActive := len(m.backends) > 0 && m.backends[0].URL == url
		m.mu.Unlock()

		logger.Log.Info("Токен истёк до обновления, сессия завершена", logger.String("url", url))
		if isActive {
			m.AuthChanged.Publish(false)
		}
		return
	}

	rawToken := b.Token
	m.mu.Unlock()

	callCtx, cancel := context.WithTimeout(context.Background(), apiCallTimeout)
	defer cancel()

	newRaw, err := m.api.Refresh(callCtx, url, rawToken)

	m.mu.Lock()

	b = m.findLocked(url)
	if b == nil {
		m.mu.Unlock()
		return
	}

	if b.Token != rawToken {
		// пока шёл запрос, токен уже сменили (повторный login) - не трогаем
		m.mu.Unlock()
		return
	}

	isActive := len(m.backends) > 0 && m.backends[0].URL == url

	if err != nil {
		m.logoutLocked(b, false)
		m.persistLocked()
		m.mu.Unlock()

		logger.Log.Warn("Не удалось обновить токен, сессия завершена",
			logger.String("url", url),
			logger.String("err", err.Error()))
		if isActive {
			m.AuthChanged.Publish(false)
		}
		return
	}

	b.Token = newRaw
	m.armRefreshLocked(b)
	m.persistLocked()
	m.mu.Unlock()

	logger.Log.Debug("Токен обновлён", logger.String("url", url))
	if isActive {
		m.AuthChanged.Publish(true)
	}
}

// persistLocked Сохранение списка бэкендов. Вызывается под мьютексом.
// Ошибка сохранения не фатальна: консоль продолжает работать с состоянием
// в памяти.
func (m *Manager) persistLocked() {
	list := make([]models.Backend, 0, len(m.backends))
	for _, b := range m.backends {
		list = append(list, *b)
	}

	if err := m.store.Persist(context.Background(), list); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Log.Error("Ошибка сохранения списка бэкендов", logger.String("err", err.Error()))
		}
	}
}
