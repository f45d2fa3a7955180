// Package storage persists generated artifacts, primarily the inventory
// valuation reports. Two drivers are available:
//   - "local"  — local filesystem (default)
//   - "s3"     — S3-compatible object storage (AWS S3, MinIO, R2, Spaces)
//
// Boot once in the server entry point, then use the package-level
// helpers against the default disk:
//
//	storage.Connect()
//	storage.Put("reports/inventory-20250101-120000.csv", data)
//	url := storage.URL("reports/inventory-20250101-120000.csv")
package storage

// Disk is the filesystem driver interface.
type Disk interface {
	// Put writes content to path, creating parent directories as needed.
	Put(path string, content []byte) error

	// Get returns the full content of the file at path.
	Get(path string) ([]byte, error)

	// Exists reports whether a file exists at path.
	Exists(path string) bool

	// Size returns the byte size of the file.
	Size(path string) (int64, error)

	// URL returns the public URL for path (meaningful for public disks / S3).
	URL(path string) string

	// Delete removes a file.
	Delete(path string) error

	// Files lists the filenames directly inside directory.
	Files(directory string) ([]string, error)
}
