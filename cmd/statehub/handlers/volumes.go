package handlers

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/util/wait"

	v1 "github.com/imamik/statehub/api/v1"
	"github.com/imamik/statehub/internal/controlplane"
	"github.com/imamik/statehub/internal/location"
	"github.com/imamik/statehub/internal/output"
)

// CreateVolume creates a volume in state.
func CreateVolume(ctx context.Context, g Globals, state, volume string, sizeGi uint64, fs string) (err error) {
	fsType, err := v1.ParseVolumeFileSystem(fs)
	if err != nil {
		return err
	}

	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	created, err := api.CreateVolume(ctx, v1.StateName(state), v1.CreateVolumeDto{
		Name:   volume,
		SizeGi: sizeGi,
		FsType: string(fsType),
	})
	if err != nil {
		return fmt.Errorf("failed to create volume %s: %w", volume, err)
	}
	return s.out.Print(created, func() string { return output.Volumes([]v1.Volume{*created}) })
}

// DeleteVolume deletes a volume, optionally waiting until it is gone.
func DeleteVolume(ctx context.Context, g Globals, state, volume string, waitGone bool) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	stateName, volumeName := v1.StateName(state), v1.VolumeName(volume)
	deleted, err := api.DeleteVolume(ctx, stateName, volumeName)
	if err != nil {
		return fmt.Errorf("failed to delete volume %s: %w", volume, err)
	}

	if waitGone {
		s.log.Info("Waiting for volume deletion", "state", state, "volume", volume)
		err := wait.PollUntilContextCancel(ctx, s.cfg.Register.PollInterval, true, func(ctx context.Context) (bool, error) {
			_, err := api.GetVolume(ctx, stateName, volumeName)
			if controlplane.IsNotFound(err) {
				return true, nil
			}
			return false, err
		})
		if err != nil {
			return fmt.Errorf("failed waiting for volume %s to be deleted: %w", volume, err)
		}
	}
	return s.out.Print(deleted, func() string { return fmt.Sprintf("Deleted volume %s", volume) })
}

// SetVolume makes primary the active location of a volume.
func SetVolume(ctx context.Context, g Globals, state, volume, primary string) (err error) {
	l, err := location.Parse(primary)
	if err != nil {
		return err
	}

	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	updated, err := api.SetVolumePrimary(ctx, v1.StateName(state), v1.VolumeName(volume), l)
	if err != nil {
		return fmt.Errorf("failed to set primary location of %s: %w", volume, err)
	}
	return s.out.Print(updated, func() string { return output.VolumeDetail(updated) })
}

// ListVolumes prints the volumes of state.
func ListVolumes(ctx context.Context, g Globals, state string) (err error) {
	s, err := newSession(g)
	if err != nil {
		return err
	}
	defer func() { err = s.close(err) }()

	api, err := s.api(ctx)
	if err != nil {
		return err
	}
	volumes, err := api.ListVolumes(ctx, v1.StateName(state))
	if err != nil {
		return fmt.Errorf("failed to list volumes of %s: %w", state, err)
	}
	return s.out.Print(volumes, func() string { return output.Volumes(volumes) })
}
