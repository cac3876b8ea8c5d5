package evaluator_handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/aista/magic-console/internal/api/response"
	"github.com/aista/magic-console/internal/authz"
	"github.com/aista/magic-console/internal/logger"
	"github.com/aista/magic-console/internal/magic"
)

// EvaluatorHandler Обработчик SQL- и Hyperlambda-вычислителей.
// Перед проксированием вызова проверяет права доступа, вычисленные из
// метаданных эндпоинтов активного бэкенда: запрещённый вызов не доходит
// до бэкенда вовсе.
type EvaluatorHandler struct {
	sqlService  *magic.SqlService
	evalService *magic.EvaluatorService
	authorizer  *authz.Authorizer
}

// NewEvaluatorHandler Конструктор EvaluatorHandler.
func NewEvaluatorHandler(sqlService *magic.SqlService, evalService *magic.EvaluatorService, authorizer *authz.Authorizer) *EvaluatorHandler {
	return &EvaluatorHandler{
		sqlService:  sqlService,
		evalService: evalService,
		authorizer:  authorizer,
	}
}

// evaluateHyperlambdaRequest Тело запроса выполнения Hyperlambda.
type evaluateHyperlambdaRequest struct {
	Hyperlambda string `json:"hyperlambda"`
}

// GetConnectionStrings Список строк подключения для типа БД.
func (h *EvaluatorHandler) GetConnectionStrings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Sql.ListConnectionStrings {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	databaseType := r.URL.Query().Get("databaseType")
	if databaseType == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать databaseType")
		return
	}

	result, err := h.sqlService.ConnectionStrings(ctx, databaseType)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// GetDatabases Список баз данных через строку подключения.
func (h *EvaluatorHandler) GetDatabases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Sql.ListDatabases {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	databaseType := r.URL.Query().Get("databaseType")
	connectionString := r.URL.Query().Get("connectionString")

	if databaseType == "" || connectionString == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать databaseType и connectionString")
		return
	}

	result, err := h.sqlService.Databases(ctx, databaseType, connectionString)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// EvaluateSQL Выполнение SQL на активном бэкенде.
func (h *EvaluatorHandler) EvaluateSQL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Sql.Execute {
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

	var req magic.EvaluateRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга SQL-запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	if req.Sql == "" {
		response.ErrorJSON(w, http.StatusBadRequest, "необходимо указать sql")
		return
	}

	result, err := h.sqlService.Evaluate(ctx, req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, result)
}

// GetVocabulary Словарь слотов Hyperlambda.
func (h *EvaluatorHandler) GetVocabulary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Eval.Vocabulary {
		response.ErrorJSON(w, http.StatusForbidden, "Недостаточно прав")
		return
	}

	words, err := h.evalService.Vocabulary(ctx)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, words)
}

// EvaluateHyperlambda Выполнение Hyperlambda на активном бэкенде.
func (h *EvaluatorHandler) EvaluateHyperlambda(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if !h.authorizer.AccessRights().Eval.Execute {
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

	var req evaluateHyperlambdaRequest
	if err = json.Unmarshal(body, &req); err != nil {
		logger.Log.Error("Ошибка анмаршаллинга Hyperlambda-запроса", logger.String("error", err.Error()))
		response.ErrorJSON(w, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	result, err := h.evalService.Evaluate(ctx, req.Hyperlambda)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"result": result})
}
