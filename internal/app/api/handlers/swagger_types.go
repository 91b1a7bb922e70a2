package handlers

import (
	"github.com/fatflowers/karma/internal/app/service/ai"
	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/app/service/journal"
	"github.com/fatflowers/karma/internal/app/service/reminder"
	"github.com/fatflowers/karma/internal/app/service/statistics"
	subsvc "github.com/fatflowers/karma/internal/app/service/subscription"
	"github.com/fatflowers/karma/internal/app/service/transaction"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/response"
	"github.com/fatflowers/karma/pkg/types"
)

// Envelope types below exist for swagger only; handlers build responses with response.OKT.

// RespOK is a generic OK envelope for endpoints returning no specific data.
type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespPlanRequired struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    types.PlanRequiredError  `json:"data"`
}

type RespLogin struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    LoginResponse            `json:"data"`
}

type RespMe struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    MeResponse               `json:"data"`
}

type RespUser struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.User              `json:"data"`
}

type RespOnboarding struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    OnboardingResponse       `json:"data"`
}

type RespStats struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.UserStats         `json:"data"`
}

type RespPrinciples struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Principle       `json:"data"`
}

type RespPrinciple struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Principle         `json:"data"`
}

type RespEntryList struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    journal.ListResult       `json:"data"`
}

type RespCreateEntry struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    journal.CreateResult     `json:"data"`
}

type RespEntry struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.JournalEntry      `json:"data"`
}

type RespAchievements struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Achievement     `json:"data"`
}

type RespPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []types.PlanItem         `json:"data"`
}

type RespSubscriptionInfo struct {
	Code    response.APIResponseCode   `json:"code"`
	Message string                     `json:"message"`
	Data    types.UserSubscriptionInfo `json:"data"`
}

type RespSubscribe struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    subsvc.SubscribeResult   `json:"data"`
}

type RespVAPIDKey struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]string        `json:"data"`
}

type RespPushSubscription struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.PushSubscription  `json:"data"`
}

type RespAIResult struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ai.Result                `json:"data"`
}

type RespBudget struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    budget.Status            `json:"data"`
}

type RespStatistics struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    statistics.Response      `json:"data"`
}

type RespBatch struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reminder.BatchResult     `json:"data"`
}

type RespExpireTrials struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    ExpireTrialsResponse     `json:"data"`
}

type RespOrders struct {
	Code    response.APIResponseCode       `json:"code"`
	Message string                         `json:"message"`
	Data    transaction.ScanOrdersResponse `json:"data"`
}
