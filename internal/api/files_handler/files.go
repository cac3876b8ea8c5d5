package files_handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
)

// FilesHandler Обработчик файловой системы бэкенда (проводник IDE).
type FilesHandler struct {
	filesService *magic.FilesService
	authorizer   *authz.Authorizer
}

// NewFilesHandler Конструктор FilesHandler.
func NewFilesHandler(filesService *magic.FilesService, authorizer *authz.Authorizer) *FilesHandler {
	return &FilesHandler{
		filesService: filesService,
		authorizer:   authorizer,
	}
}

// saveFileRequest Тело запроса сохранения файла.
type saveFileRequest struct {
	Folder   string `json:"folder"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// renameRequest Тело запроса переименования.
type renameRequest struct {
	OldName string `json:"oldName"`
	NewName string `json:"newName"`
}

// folderRequest Тело запроса создания папки.
type folderRequest struct {
	Folder string `json:"folder"`
}

// GetFiles Список файлов в папке.
func (h *FilesHandler) GetFiles(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.ListFiles {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "/"
	}

	files, err := h.filesService.ListFiles(ctx, folder, r.URL.Query().Get("filter"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, files)
}

// GetFolders Список подпапок в папке.
func (h *FilesHandler) GetFolders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.ListFolders {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		folder = "/"
	}

	folders, err := h.filesService.ListFolders(ctx, folder)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, folders)
}

// LoadFile Содержимое файла как текст.
func (h *FilesHandler) LoadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.LoadFile {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать file")
		return
	}

	content, err := h.filesService.LoadFile(ctx, file)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"content": content})
}

// SaveFile Сохранение содержимого файла.
func (h *FilesHandler) SaveFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.SaveFile {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return
	}

	var req saveFileRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга запроса сохранения файла", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.filesService.SaveFile(ctx, req.Folder, req.Filename, req.Content); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Файл сохранён")
}

// DelFile Удаление файла.
func (h *FilesHandler) DelFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.DeleteFile {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать file")
		return
	}

	if err := h.filesService.DeleteFile(ctx, file); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Файл удалён")
}

// AddFolder Создание папки.
func (h *FilesHandler) AddFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.CreateFolder {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return
	}

	var req folderRequest
	if err = json.Unmarshal(body, &req); err != nil || req.Folder == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.filesService.CreateFolder(ctx, req.Folder); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusCreated, "Папка создана")
}

// DelFolder Удаление папки.
func (h *FilesHandler) DelFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.DeleteFolder {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать folder")
		return
	}

	if err := h.filesService.DeleteFolder(ctx, folder); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Папка удалена")
}

// Rename Переименование файла или папки.
func (h *FilesHandler) Rename(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.Rename {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Log.Error("Ошибка чтения тела запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusInternalServerError, "Ошибка чтения тела запроса")
		return
	}

	var req renameRequest
	if err = json.Unmarshal(body, &req); err != nil || req.OldName == "" || req.NewName == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if err = h.filesService.Rename(ctx, req.OldName, req.NewName); err != nil {
		response.FromError(w, err)
		return
	}

	response.SuccessJSON(w, http.StatusOK, "Переименовано")
}

// DownloadFile Скачивание файла бинарным потоком с пробросом имени файла.
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.Download {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	file := r.URL.Query().Get("file")
	if file == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать file")
		return
	}

	result, err := h.filesService.DownloadFile(ctx, file)
	if err != nil {
		response.FromError(w, err)
		return
	}
	defer result.Body.Close()

	h.streamDownload(w, result)
}

// DownloadFolder Скачивание папки архивом.
func (h *FilesHandler) DownloadFolder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Files.Download {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	folder := r.URL.Query().Get("folder")
	if folder == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать folder")
		return
	}

	result, err := h.filesService.DownloadFolder(ctx, folder)
	if err != nil {
		response.FromError(w, err)
		return
	}
	defer result.Body.Close()

	h.streamDownload(w, result)
}

// Проброс скачиваемого потока клиенту как есть.
func (h *FilesHandler) streamDownload(w http.ResponseWriter, result *magic.DownloadResult) {
	if result.ContentType != "" {
		w.Header().Set("Content-Type", result.ContentType)
	}
	if result.Filename != "" {
		w.Header().Set("Content-Disposition", "attachment; filename=\""+result.Filename+"\"")
	}

	if _, err := io.Copy(w, result.Body); err != nil {
		logger.Log.Error("Ошибка проброса скачиваемого файла", logger.String("err", err.Error()))
	}
}
