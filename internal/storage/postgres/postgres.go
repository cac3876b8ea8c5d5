package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/models"
	"github.com/aista/magic-console/internal/storage"
	"github.com/aista/magic-console/internal/storage/postgres/utils"
)

// PgStorage Структура хранилища в PostgreSQL, удовлетворяющая интерфейсу Storage.
type PgStorage struct {
	DB     *sql.DB
	aesKey []byte
}

// InitStorage Инициализация хранилища.
func InitStorage(DatabaseURI string, aesKey []byte) (*PgStorage, error) {
	// открываем соединение с БД
	pg, err := sql.Open("pgx", DatabaseURI)
	if err != nil {
		logger.Log.Error("Ошибка подключения к БД PostgreSQL", logger.String("err", err.Error()))
		return nil, fmt.Errorf("ошибка подключения к БД PostgreSQL: %w", err)
	}

	// проверяем, "живое" ли соединение
	if err = pg.Ping(); err != nil {
		logger.Log.Error("Ошибка при попытке подключения к БД PostgreSQL", logger.String("err", err.Error()))
		return nil, fmt.Errorf("нет связи с БД PostgreSQL: %w", err)
	}

	// применяем миграции
	err = utils.ApplyMigrations(DatabaseURI)
	if err != nil {
		logger.Log.Error("Ошибка применения миграций к БД PostgreSQL", logger.String("err", err.Error()))
		_ = pg.Close()
		return nil, fmt.Errorf("ошибка применения миграций к БД PostgreSQL: %w", err)
	}

	pgStorage := &PgStorage{DB: pg, aesKey: aesKey}

	logger.Log.Info("В качестве хранилища используется БД PostgreSQL")
	return pgStorage, nil
}

// Load Восстанавливает список бэкендов из БД в порядке position.
func (pg *PgStorage) Load(ctx context.Context) ([]models.Backend, error) {
	query := `SELECT url, username, password, token FROM backends ORDER BY position`

	rows, err := pg.DB.QueryContext(ctx, query)
	if err != nil {
		logger.Log.Error("Ошибка при получении списка бэкендов", logger.String("err", err.Error()))
		return nil, fmt.Errorf("ошибка при получении списка бэкендов: %w", err)
	}
	defer rows.Close()

	var backends []models.Backend

	for rows.Next() {
		var record storage.Record
		if err = rows.Scan(&record.URL, &record.Username, &record.Password, &record.Token); err != nil {
			logger.Log.Error("Ошибка парсинга строки списка бэкендов", logger.String("err", err.Error()))
			return nil, err
		}

		if record.Password != "" {
			plain, decErr := storage.DecryptAES(record.Password, pg.aesKey)
			if decErr != nil {
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

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения списка бэкендов: %w", err)
	}

	return backends, nil
}

// Persist Сохраняет список бэкендов целиком в одной транзакции:
// старый список удаляется и записывается новый (last-wins).
func (pg *PgStorage) Persist(ctx context.Context, backends []models.Backend) error {
	tx, err := pg.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	if _, err = tx.ExecContext(ctx, `DELETE FROM backends`); err != nil {
		return fmt.Errorf("ошибка очистки списка бэкендов: %w", err)
	}

	query := `INSERT INTO backends (url, username, password, token, position) VALUES ($1, $2, $3, $4, $5)`

	for position, b := range backends {
		record := storage.NewRecord(b)

		if record.Password != "" {
			encrypted, encErr := storage.EncryptAES([]byte(record.Password), pg.aesKey)
			if encErr != nil {
				return fmt.Errorf("ошибка шифрования пароля бэкенда %s: %w", record.URL, encErr)
			}
			record.Password = encrypted
		}

		if _, err = tx.ExecContext(ctx, query, record.URL, record.Username, record.Password, record.Token, position); err != nil {
			return fmt.Errorf("ошибка при сохранении бэкенда %s: %w", record.URL, err)
		}
	}

	return tx.Commit()
}

// Close Закрытие соединения с БД.
func (pg *PgStorage) Close() error {
	return pg.DB.Close()
}
