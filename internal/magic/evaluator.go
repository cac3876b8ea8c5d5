package magic

import (
	"context"
	"fmt"

	"github.com/aista/magic-console/internal/errs"
)

// EvaluatorService Вызовы вычислителя Hyperlambda.
type EvaluatorService struct {
	c            *Client
	systemPrefix string
}

// NewEvaluatorService Конструктор EvaluatorService.
func NewEvaluatorService(c *Client, systemPrefix string) *EvaluatorService {
	return &EvaluatorService{
		c:            c,
		systemPrefix: systemPrefix,
	}
}

// Vocabulary Словарь слотов Hyperlambda, доступных на бэкенде.
func (s *EvaluatorService) Vocabulary(ctx context.Context) ([]string, error) {
	var words []string
	err := s.c.Get(ctx, s.systemPrefix+"/evaluator/vocabulary", &words)

	return words, err
}

// Evaluate Выполнение Hyperlambda на бэкенде. Возвращает результирующую
// Hyperlambda в виде текста.
func (s *EvaluatorService) Evaluate(ctx context.Context, hyperlambda string) (string, error) {
	if hyperlambda == "" {
		return "", errs.NewErrInvalidArgument("hyperlambda", fmt.Errorf("пустой код"))
	}

	body := map[string]string{"hyperlambda": hyperlambda}

	var result struct {
		Result string `json:"result"`
	}

	err := s.c.Post(ctx, s.systemPrefix+"/evaluator/evaluate", body, &result)

	return result.Result, err
}
