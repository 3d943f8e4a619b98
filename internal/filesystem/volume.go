package filesystem

import (
	"cmp"
	"path/filepath"
	"slices"
	"strings"
)

// unknownVolume labels paths outside every configured volume.
const unknownVolume = "unknown"

// VolumeResolver labels paths with the name of the configured directory that
// contains them. The deepest matching directory wins.
type VolumeResolver struct {
	mounts []mount
}

type mount struct {
	dir  string // cleaned absolute path
	name string
}

// NewVolumeResolver creates a resolver from volume names to directories.
// Relative directories are made absolute against the working directory.
//
//	NewVolumeResolver(map[string]string{
//	    "source": "./src/mobilities",
//	    "public": "./public",
//	})
func NewVolumeResolver(volumes map[string]string) *VolumeResolver {
	mounts := make([]mount, 0, len(volumes))
	for name, dir := range volumes {
		mounts = append(mounts, mount{dir: absClean(dir), name: name})
	}
	slices.SortFunc(mounts, func(a, b mount) int {
		if c := cmp.Compare(len(b.dir), len(a.dir)); c != 0 {
			return c
		}
		return cmp.Compare(a.name, b.name)
	})
	return &VolumeResolver{mounts: mounts}
}

// Resolve returns the volume containing path, or "unknown".
func (vr *VolumeResolver) Resolve(path string) string {
	if vr == nil {
		return unknownVolume
	}
	p := absClean(path)
	for _, m := range vr.mounts {
		if p == m.dir || strings.HasPrefix(p, m.dir+string(filepath.Separator)) {
			return m.name
		}
	}
	return unknownVolume
}

func absClean(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

var defaultVolumes *VolumeResolver

// SetDefaultVolumeResolver sets the resolver used when a RetryConfig has
// none. Call it once at startup after loading configuration.
func SetDefaultVolumeResolver(vr *VolumeResolver) {
	defaultVolumes = vr
}
