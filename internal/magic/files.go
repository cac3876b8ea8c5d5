package magic

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aista/magic-console/internal/errs"
)

// FilesService Вызовы файловой системы бэкенда (IDE/проводник).
type FilesService struct {
	c            *Client
	systemPrefix string
}

// NewFilesService Конструктор FilesService.
func NewFilesService(c *Client, systemPrefix string) *FilesService {
	return &FilesService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// ListFiles Список файлов в папке. filter - необязательный фильтр по имени.
func (f *FilesService) ListFiles(ctx context.Context, folder, filter string) ([]string, error) {
	query := url.Values{}
	query.Set("folder", folder)
	if filter != "" {
		query.Set("filter", filter)
	}

	var files []string
	err := f.c.Get(ctx, f.systemPrefix+"/file-system/list-files?"+query.Encode(), &files)

	return files, err
}

// ListFolders Список подпапок в папке.
func (f *FilesService) ListFolders(ctx context.Context, folder string) ([]string, error) {
	query := url.Values{}
	query.Set("folder", folder)

	var folders []string
	err := f.c.Get(ctx, f.systemPrefix+"/file-system/list-folders?"+query.Encode(), &folders)

	return folders, err
}

// LoadFile Загрузка содержимого файла.
func (f *FilesService) LoadFile(ctx context.Context, path string) (string, error) {
	query := url.Values{}
	query.Set("file", path)

	result, err := f.c.Download(ctx, f.systemPrefix+"/file-system/file?"+query.Encode())
	if err != nil {
		return "", err
	}
	defer result.Body.Close()

	content, err := io.ReadAll(result.Body)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения файла: %w", err)
	}

	return string(content), nil
}

// SaveFile Сохранение содержимого файла.
func (f *FilesService) SaveFile(ctx context.Context, folder, filename, content string) error {
	// в параметре ожидается только имя файла, без разделителей пути
	if strings.ContainsAny(filename, "/\\") {
		return errs.NewErrInvalidArgument("filename", fmt.Errorf("имя файла не должно содержать разделителей пути: %s", filename))
	}

	query := url.Values{}
	query.Set("folder", folder)
	query.Set("file", filename)

	body := map[string]string{"content": content}

	return f.c.Put(ctx, f.systemPrefix+"/file-system/file?"+query.Encode(), body, nil)
}

// DeleteFile Удаление файла.
func (f *FilesService) DeleteFile(ctx context.Context, path string) error {
	query := url.Values{}
	query.Set("file", path)

	return f.c.Delete(ctx, f.systemPrefix+"/file-system/file?"+query.Encode(), nil)
}

// CreateFolder Создание папки.
func (f *FilesService) CreateFolder(ctx context.Context, folder string) error {
	query := url.Values{}
	query.Set("folder", folder)

	return f.c.Put(ctx, f.systemPrefix+"/file-system/folder?"+query.Encode(), nil, nil)
}

// DeleteFolder Удаление папки.
func (f *FilesService) DeleteFolder(ctx context.Context, folder string) error {
	query := url.Values{}
	query.Set("folder", folder)

	return f.c.Delete(ctx, f.systemPrefix+"/file-system/folder?"+query.Encode(), nil)
}

// Rename Переименование файла или папки.
func (f *FilesService) Rename(ctx context.Context, oldName, newName string) error {
	body := map[string]string{
		"oldName": oldName,
		"newName": newName,
	}

	return f.c.Post(ctx, f.systemPrefix+"/file-system/rename", body, nil)
}

// DownloadFile Скачивание файла как бинарного потока (с заголовками для
// извлечения имени файла).
func (f *FilesService) DownloadFile(ctx context.Context, path string) (*DownloadResult, error) {
	query := url.Values{}
	query.Set("file", path)

	return f.c.Download(ctx, f.systemPrefix+"/file-system/download?"+query.Encode())
}

// DownloadFolder Скачивание папки архивом.
func (f *FilesService) DownloadFolder(ctx context.Context, folder string) (*DownloadResult, error) {
	query := url.Values{}
	query.Set("folder", folder)

	return f.c.Download(ctx, f.systemPrefix+"/file-system/download-folder?"+query.Encode())
}
