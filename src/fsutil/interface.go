package fsutil

// FileStore provides an interface for reading a document corpus from storage
type FileStore interface {
	// ReadFile reads a file and returns its contents
	ReadFile(path string) ([]byte, error)

	// ListFiles returns the paths of regular files in a directory, in
	// directory-listing order
	ListFiles(path string) ([]string, error)
}
