package v1

import (
	"fmt"
	"strings"
	"time"
)

// VolumeName identifies a volume within a state.
type VolumeName string

// Volume is a block volume replicated with its state.
type Volume struct {
	ID             string           `json:"id"`
	Name           VolumeName       `json:"name"`
	SizeGi         uint64           `json:"sizeGi"`
	FsType         string           `json:"fsType"`
	ActiveLocation string           `json:"activeLocation,omitempty"`
	Locations      []VolumeLocation `json:"locations"`
	Format         *time.Time       `json:"format,omitempty"`
	Created        time.Time        `json:"created"`
	Modified       time.Time        `json:"modified"`
}

// VolumeLocation is the replication status of a volume in one region.
type VolumeLocation struct {
	Name     string                  `json:"name"`
	Status   LocationVolumeStatus    `json:"status"`
	Progress *VolumeLocationProgress `json:"progress,omitempty"`
}

// LocationVolumeStatus is a status with an optional server message.
type LocationVolumeStatus struct {
	Value StateLocationStatus `json:"value"`
	Msg   string              `json:"msg,omitempty"`
}

// VolumeLocationProgress reports synchronisation progress.
type VolumeLocationProgress struct {
	BytesSynchronized uint64 `json:"bytesSynchronized"`
	BytesTotal        uint64 `json:"bytesTotal"`
}

// VolumeFileSystem is a filesystem a volume can be formatted with.
type VolumeFileSystem string

// Supported filesystems.
const (
	FileSystemExt   VolumeFileSystem = "ext"
	FileSystemExt2  VolumeFileSystem = "ext2"
	FileSystemExt3  VolumeFileSystem = "ext3"
	FileSystemExt4  VolumeFileSystem = "ext4"
	FileSystemJFS   VolumeFileSystem = "jfs"
	FileSystemSwap  VolumeFileSystem = "swap"
	FileSystemFAT   VolumeFileSystem = "fat"
	FileSystemFAT32 VolumeFileSystem = "fat32"
)

var fileSystems = []VolumeFileSystem{
	FileSystemExt, FileSystemExt2, FileSystemExt3, FileSystemExt4,
	FileSystemJFS, FileSystemSwap, FileSystemFAT, FileSystemFAT32,
}

// ParseVolumeFileSystem parses a filesystem name, case insensitively.
func ParseVolumeFileSystem(s string) (VolumeFileSystem, error) {
	fs := VolumeFileSystem(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range fileSystems {
		if fs == known {
			return fs, nil
		}
	}
	return "", fmt.Errorf("invalid volume file system %q", s)
}

// CreateVolumeDto is the request body for creating a volume.
type CreateVolumeDto struct {
	Name   string `json:"name"`
	SizeGi uint64 `json:"sizeGi"`
	FsType string `json:"fsType"`
}
