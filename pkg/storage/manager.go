package storage

import (
	"fmt"
	"sync"

	"github.com/shashiranjanraj/stockledger/config"
)

var (
	managerMu   sync.RWMutex
	disks       = map[string]Disk{}
	defaultDisk string
)

// Connect boots the storage manager. Call once at application startup.
func Connect() {
	managerMu.Lock()
	defer managerMu.Unlock()

	defaultDisk = config.Get("STORAGE_DISK", "local")
	disks["local"] = newLocalDisk()

	// Boot the S3 disk only when a bucket is configured.
	if config.Get("S3_BUCKET", "") != "" {
		d, err := newS3Disk()
		if err != nil {
			fmt.Printf("storage/s3: %v (disk disabled)\n", err)
		} else {
			disks["s3"] = d
		}
	}
}

// Use returns the named disk ("local" or "s3").
func Use(name string) Disk {
	managerMu.RLock()
	defer managerMu.RUnlock()

	if d, ok := disks[name]; ok {
		return d
	}
	return disks["local"]
}

// RegisterDisk adds a custom disk under name. Used by tests.
func RegisterDisk(name string, d Disk) {
	managerMu.Lock()
	defer managerMu.Unlock()
	disks[name] = d
	if defaultDisk == "" {
		defaultDisk = name
	}
}

func defaultD() Disk {
	managerMu.RLock()
	name := defaultDisk
	managerMu.RUnlock()
	return Use(name)
}

// Package-level helpers against the default disk.

func Put(path string, content []byte) error { return defaultD().Put(path, content) }

func Get(path string) ([]byte, error) { return defaultD().Get(path) }

func Exists(path string) bool { return defaultD().Exists(path) }

func Size(path string) (int64, error) { return defaultD().Size(path) }

func URL(path string) string { return defaultD().URL(path) }

func Delete(path string) error { return defaultD().Delete(path) }

func Files(directory string) ([]string, error) { return defaultD().Files(directory) }
