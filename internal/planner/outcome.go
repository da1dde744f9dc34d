package planner

import "errors"

// Ошибки жесткого отказа: структурные проблемы и нарушения неизменяемости.
// Мягкие бизнес-конфликты в ошибки не попадают, они возвращаются в Outcome.
var (
	ErrPlanExpired     = errors.New("weekly plan is expired")
	ErrMenuNotAssigned = errors.New("menu is not assigned to the plan")
	ErrMenuPublished   = errors.New("assigned menu is published")
	ErrQuotaExceeded   = errors.New("menu quota exceeded")
)

type OutcomeStatus string

const (
	OutcomeSuccess         OutcomeStatus = "success"
	OutcomeWarning         OutcomeStatus = "warning"
	OutcomeWarningMultiple OutcomeStatus = "warning_multiple"
	OutcomeDuplicateMenu   OutcomeStatus = "duplicate_menu"
	OutcomeNotFound        OutcomeStatus = "not_found"
)

// Detail — машинно-читаемая деталь для локализации на клиенте: ключ
// сообщения и параметры. Движок не рендерит текст.
type Detail struct {
	Key    string            `json:"key"`
	Params map[string]string `json:"params,omitempty"`
}

// Outcome — явный итог операции вместо side-channel полей в контексте
// запроса: статус, ключ сообщения и список предупреждений по сущностям.
type Outcome struct {
	Status   OutcomeStatus `json:"status"`
	Message  *Detail       `json:"message,omitempty"`
	Warnings []Detail      `json:"warnings,omitempty"`
}

// Success возвращает итог успешной операции без предупреждений.
func Success() Outcome {
	return Outcome{Status: OutcomeSuccess}
}

func warningOutcome(warnings []Detail) Outcome {
	status := OutcomeWarning
	if len(warnings) > 1 {
		status = OutcomeWarningMultiple
	}
	return Outcome{Status: status, Warnings: warnings}
}
