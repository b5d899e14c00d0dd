package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"teamup-notifier/logging"
	"teamup-notifier/model"
	"teamup-notifier/teamup"
)

// API — операции TeamUp, которые использует Executor.
type API interface {
	SendChat(ctx context.Context, roomID int64, content string) (teamup.Response, error)
	SendFeed(ctx context.Context, feedGroupID int64, content string, push bool) (teamup.Response, error)
	SearchUser(ctx context.Context, query string) (teamup.SearchResult, error)
	SendNote(ctx context.Context, userName string, userIndex int64, title, content string) (teamup.Response, error)
}

// Executor выполняет действия и превращает любые ошибки в неуспешный Result.
type Executor struct {
	api API
}

// New создаёт Executor поверх клиента TeamUp.
func New(api API) *Executor {
	return &Executor{api: api}
}

// ExecuteAll выполняет действия по порядку; сбой одного не прерывает остальные.
func (e *Executor) ExecuteAll(ctx context.Context, actions []model.Action) []model.Result {
	results := make([]model.Result, 0, len(actions))
	for _, action := range actions {
		results = append(results, e.Execute(ctx, action))
	}
	return results
}

// Execute выполняет одно действие.
func (e *Executor) Execute(ctx context.Context, action model.Action) model.Result {
	resp, err := e.dispatch(ctx, action)
	if err != nil {
		logging.L.Warn("teamup action failed",
			zap.String("type", string(action.Type)),
			zap.String("target", action.TargetID),
			zap.Error(err))
		return failed(action, err.Error())
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		return failed(action, fmt.Sprintf("encode response: %v", err))
	}

	return model.Result{Success: true, Action: action, Response: raw}
}

func (e *Executor) dispatch(ctx context.Context, action model.Action) (teamup.Response, error) {
	switch action.Type {
	case model.ActionChat:
		roomID, err := parseTarget(action.TargetID)
		if err != nil {
			return nil, err
		}
		return e.api.SendChat(ctx, roomID, action.Content)

	case model.ActionFeed:
		groupID, err := parseTarget(action.TargetID)
		if err != nil {
			return nil, err
		}
		return e.api.SendFeed(ctx, groupID, action.Content, action.Push)

	case model.ActionNote:
		query := strings.TrimSpace(action.TargetID)
		if query == "" {
			return nil, fmt.Errorf("target is required")
		}
		found, err := e.api.SearchUser(ctx, query)
		if err != nil {
			return nil, err
		}
		if len(found.Users) == 0 {
			return nil, fmt.Errorf("user not found: %s", query)
		}
		user := found.Users[0]
		return e.api.SendNote(ctx, user.Name, user.Index, action.Title, action.Content)

	default:
		return nil, fmt.Errorf("unknown action type %q", action.Type)
	}
}

func parseTarget(target string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(target), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("target %q is not a number", target)
	}
	return id, nil
}

func failed(action model.Action, msg string) model.Result {
	return model.Result{Success: false, Action: action, Error: msg}
}
