package household

import (
	"context"

	"github.com/mvickery/hearth-core/internal/device"
	"github.com/mvickery/hearth-core/internal/events"
	"github.com/mvickery/hearth-core/internal/owner"
	"github.com/mvickery/hearth-core/internal/scene"
)

// ExecuteScene resolves and applies the named scene for the owner.
//
// Actions apply independently with no rollback; the report carries the
// per-action accounting. The record is saved only when at least one
// device actually changed state.
func (s *Service) ExecuteScene(ctx context.Context, ownerID, name string) (*scene.Report, error) {
	now := s.now().UTC()

	var report *scene.Report
	err := s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		r, err := scene.Execute(rec.SceneOverrides, name, rec.Lookup(), now)
		if err != nil {
			return false, err
		}
		report = r
		return r.Applied > 0, nil
	})
	if err != nil {
		return nil, err
	}

	s.emit(events.Record{
		OwnerID: ownerID,
		Kind:    events.KindSceneExecuted,
		Message: report.Summary(),
		At:      now,
	})
	return report, nil
}

// ListScenes enumerates the scenes the owner can execute: the built-in
// catalog plus custom names, overrides marked.
func (s *Service) ListScenes(ctx context.Context, ownerID string) ([]scene.Available, error) {
	rec, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return scene.ListAvailable(rec.SceneOverrides), nil
}

// GetScene returns the owner's effective version of the named scene.
func (s *Service) GetScene(ctx context.Context, ownerID, name string) (*scene.Scene, error) {
	rec, err := s.registry.Get(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return scene.Resolve(rec.SceneOverrides, name)
}

// AddSceneAction appends an action to the owner's version of the scene,
// creating a custom scene when the name is new.
func (s *Service) AddSceneAction(ctx context.Context, ownerID, name string, action scene.Action) error {
	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if err := scene.AddAction(rec.SceneOverrides, name, action); err != nil {
			return false, err
		}
		return true, nil
	})
}

// RemoveSceneAction drops the action targeting the device from the
// owner's version of the scene.
func (s *Service) RemoveSceneAction(ctx context.Context, ownerID, name, deviceType, room string) error {
	key := device.NewKey(deviceType, room)
	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if err := scene.RemoveAction(rec.SceneOverrides, name, key); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ChangeSceneAction replaces the target state of the action addressing
// the device in the owner's version of the scene.
func (s *Service) ChangeSceneAction(ctx context.Context, ownerID, name, deviceType, room, action, description string) error {
	act, err := device.ParseAction(action)
	if err != nil {
		return err
	}
	key := device.NewKey(deviceType, room)
	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		if err := scene.ChangeAction(rec.SceneOverrides, name, key, act, description); err != nil {
			return false, err
		}
		return true, nil
	})
}

// ResetScene discards the owner's override so the built-in applies again.
func (s *Service) ResetScene(ctx context.Context, ownerID, name string) error {
	return s.registry.Update(ctx, ownerID, func(rec *owner.Record) (bool, error) {
		_, hadOverride := rec.SceneOverrides[scene.NormalizeName(name)]
		if err := scene.ResetToBuiltIn(rec.SceneOverrides, name); err != nil {
			return false, err
		}
		return hadOverride, nil
	})
}
