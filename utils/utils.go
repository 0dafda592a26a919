package utils

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// ResolveRootfs ensures that the current working directory is not a
// symlink and returns the absolute path to the rootfs.
func ResolveRootfs(uncleanRootfs string) (string, error) {
	rootfs, err := filepath.Abs(uncleanRootfs)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(rootfs)
}

// CleanPath makes a path safe for use with filepath.Join. This is done
// by not only cleaning the path but also (if the path is relative)
// adding a leading '/' and cleaning it (then removing the leading '/').
func CleanPath(path string) string {
	if path == "" {
		return ""
	}
	path = filepath.Clean(path)
	if !filepath.IsAbs(path) {
		path = filepath.Clean(string(os.PathSeparator) + path)
		path, _ = filepath.Rel(string(os.PathSeparator), path)
	}
	return filepath.Clean(path)
}

// WriteJSON atomically writes v as JSON to path. The file is staged
// next to the destination and renamed into place so readers never see
// a partial record.
func WriteJSON(path string, v interface{}) error {
	f, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-")
	if err != nil {
		return err
	}
	tmpName := f.Name()
	err = json.NewEncoder(f).Encode(v)
	if err1 := f.Close(); err == nil {
		err = err1
	}
	if err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
