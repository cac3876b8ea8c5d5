package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/storage"
)

// FileStorage Хранилище списка бэкендов в одном JSON-файле,
// удовлетворяющее интерфейсу Storage. Пароли шифруются AES-256-GCM ключом,
// выведенным из секрета консоли.
type FileStorage struct {
	path   string
	aesKey []byte
	// seed Список бэкендов по умолчанию для локальной разработки.
	// Используется только если файла хранилища ещё нет.
	seed []models.Backend
}

// InitStorage Инициализация файлового хранилища.
func InitStorage(path string, aesKey []byte, seed []models.Backend) *FileStorage {
	logger.Log.Info("В качестве хранилища используется JSON-файл", logger.String("path", path))

	return &FileStorage{
		path:   path,
		aesKey: aesKey,
		seed:   seed,
	}
}

// Load Восстанавливает список бэкендов из файла. Если файла нет - возвращает
// список по умолчанию (в локальной разработке) либо пустой список.
func (fs *FileStorage) Load(_ context.Context) ([]models.Backend, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fs.seed, nil
		}
		return nil, fmt.Errorf("ошибка чтения файла хранилища: %w", err)
	}

	var records []storage.Record
	if err = json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("ошибка разбора файла хранилища: %w", err)
	}

	backends := make([]models.Backend, 0, len(records))

	for _, record := range records {
		if record.Password != "" {
			plain, decErr := storage.DecryptAES(record.Password, fs.aesKey)
			if decErr != nil {
				// пароль не расшифровался (сменился секрет консоли) -
				// бэкенд остаётся, пароль пользователь введёт заново
				logger.Log.Warn("Не удалось расшифровать пароль бэкенда",
					logger.String("url", record.URL),
					logger.String("err", decErr.Error()))
				record.Password = ""
			} else {
				record.Password = plain
			}
		}

		backends = append(backends, record.Backend())
	}

	return backends, nil
}

// Persist Сохраняет список бэкендов целиком. Истёкшие токены отбрасываются,
// пароли шифруются. Запись атомарная: во временный файл с последующим rename.
func (fs *FileStorage) Persist(_ context.Context, backends []models.Backend) error {
	records := make([]storage.Record, 0, len(backends))

	for _, b := range backends {
		record := storage.NewRecord(b)

		if record.Password != "" {
			encrypted, err := storage.EncryptAES([]byte(record.Password), fs.aesKey)
			if err != nil {
				return fmt.Errorf("ошибка шифрования пароля бэкенда %s: %w", record.URL, err)
			}
			record.Password = encrypted
		}

		records = append(records, record)
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("ошибка сериализации списка бэкендов: %w", err)
	}

	tmp := fs.path + ".tmp"
	if err = os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return fmt.Errorf("ошибка создания каталога хранилища: %w", err)
	}

	if err = os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("ошибка записи файла хранилища: %w", err)
	}

	if err = os.Rename(tmp, fs.path); err != nil {
		return fmt.Errorf("ошибка замены файла хранилища: %w", err)
	}

	return nil
}

// Close Файловому хранилищу закрывать нечего.
func (fs *FileStorage) Close() error {
	return nil
}
