package session

import (
	"context"
	"fmt"

	"github.com/smartcontractkit/chainlink-user-manager/datastore"
	"github.com/smartcontractkit/chainlink-user-manager/pkg/logger"
)

// StepResult is the outcome of one executed Step. Only the fields relevant to Op are set.
type StepResult struct {
	Step    int              `json:"step" yaml:"step" toml:"step"`
	Op      Op               `json:"op" yaml:"op" toml:"op"`
	ID      int64            `json:"id,omitempty" yaml:"id,omitempty" toml:"id,omitempty"`
	User    *datastore.User  `json:"user,omitempty" yaml:"user,omitempty" toml:"user,omitempty"`
	Found   *bool            `json:"found,omitempty" yaml:"found,omitempty" toml:"found,omitempty"`
	Deleted *bool            `json:"deleted,omitempty" yaml:"deleted,omitempty" toml:"deleted,omitempty"`
	Count   *int             `json:"count,omitempty" yaml:"count,omitempty" toml:"count,omitempty"`
	Users   []datastore.User `json:"users,omitempty" yaml:"users,omitempty" toml:"users,omitempty"`
}

// Report collects the results of a script run.
type Report struct {
	Session string       `json:"session" yaml:"session" toml:"session"`
	Backend string       `json:"backend" yaml:"backend" toml:"backend"`
	Results []StepResult `json:"results" yaml:"results" toml:"results"`
}

// executor applies steps to a single user store.
type executor struct {
	store datastore.UserStoreV2
	lggr  logger.Logger
}

func newExecutor(store datastore.UserStoreV2, lggr logger.Logger) *executor {
	return &executor{store: store, lggr: lggr}
}

// execute runs step as the n-th step of the session.
func (e *executor) execute(ctx context.Context, n int, step Step) (StepResult, error) {
	result := StepResult{Step: n, Op: step.Op}

	switch step.Op {
	case OpAdd:
		u, err := e.store.Add(ctx, step.Name, step.Email)
		if err != nil {
			return result, fmt.Errorf("step %d: add: %w", n, err)
		}
		result.User = &u
		e.lggr.Infow("User added", "step", n, "id", u.ID)

	case OpFind:
		u, found, err := e.store.FindByID(ctx, step.ID)
		if err != nil {
			return result, fmt.Errorf("step %d: find %d: %w", n, step.ID, err)
		}
		result.ID = step.ID
		result.Found = &found
		if found {
			result.User = &u
		}
		e.lggr.Debugw("User lookup", "step", n, "id", step.ID, "found", found)

	case OpDelete:
		deleted, err := e.store.DeleteByID(ctx, step.ID)
		if err != nil {
			return result, fmt.Errorf("step %d: delete %d: %w", n, step.ID, err)
		}
		result.ID = step.ID
		result.Deleted = &deleted
		if deleted {
			e.lggr.Infow("User deleted", "step", n, "id", step.ID)
		} else {
			e.lggr.Warnw("User not deleted, no such id", "step", n, "id", step.ID)
		}

	case OpList:
		users, err := e.store.List(ctx)
		if err != nil {
			return result, fmt.Errorf("step %d: list: %w", n, err)
		}
		count := len(users)
		result.Count = &count
		result.Users = users
		e.lggr.Debugw("Users listed", "step", n, "count", count)

	default:
		return result, fmt.Errorf("step %d: %w: %q", n, ErrUnknownOp, step.Op)
	}

	return result, nil
}

// run executes every step of script in order and stops at the first error.
func (e *executor) run(ctx context.Context, script *Script) ([]StepResult, error) {
	results := make([]StepResult, 0, len(script.Steps))
	for i, step := range script.Steps {
		result, err := e.execute(ctx, i+1, step)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}

	return results, nil
}
